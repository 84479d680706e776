// pool.go: Buffer pooling for nonce and ciphertext assembly.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import "sync"

var (
	// smallBufferPool serves nonce-sized and key-sized scratch buffers.
	smallBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 32)
			return &buf
		},
	}

	// chunkBufferPool serves streaming chunk buffers.
	chunkBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, DefaultChunkSize)
			return &buf
		},
	}
)

// getBuffer retrieves a small scratch buffer of the requested size.
// Sizes above 32 bytes are allocated directly and not pooled.
func getBuffer(size int) *[]byte {
	if size <= 32 {
		buf := smallBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	}
	buf := make([]byte, size)
	return &buf
}

// putBuffer zeroizes and returns a scratch buffer to the pool.
// Buffers are wiped before reuse because they may have held nonces or
// key material.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	Zeroize(*buf)
	if cap(*buf) == 32 {
		smallBufferPool.Put(buf)
	}
}

// getChunkBuffer retrieves a zero-length chunk buffer with pooled capacity.
func getChunkBuffer() []byte {
	buf := chunkBufferPool.Get().(*[]byte)
	return (*buf)[:0]
}

// putChunkBuffer zeroizes and returns a chunk buffer to the pool.
func putChunkBuffer(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	full := buf[:cap(buf)]
	Zeroize(full)
	chunkBufferPool.Put(&buf)
}
