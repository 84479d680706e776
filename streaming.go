// streaming.go: Streaming encryption/decryption for large payloads.
//
// This module encrypts data in chunks under a Hasher's derived key so
// that large payloads never have to be held in memory whole. Each chunk
// is sealed independently with ChaCha20-Poly1305 under a per-chunk nonce
// built from a random stream prefix and a chunk counter, so chunks cannot
// be reordered, duplicated or truncated without detection at that chunk.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// StreamEncryptor encrypts data written to it in chunks and forwards the
// sealed chunks to an underlying writer.
//
// Example:
//
//	enc, _ := hasher.NewStreamEncryptor(file)
//	defer enc.Close()
//	io.Copy(enc, input)
//
// Close must be called to flush the final partial chunk.
type StreamEncryptor interface {
	io.Writer

	// Close flushes any buffered data as a final chunk. Idempotent.
	Close() error
}

// StreamDecryptor decrypts a stream produced by StreamEncryptor.
//
// Example:
//
//	dec, _ := hasher.NewStreamDecryptor(file)
//	io.Copy(output, dec)
type StreamDecryptor interface {
	io.Reader

	// Close marks the decryptor as done. Idempotent.
	Close() error
}

// DefaultChunkSize is the default plaintext chunk size (64KB). It
// balances memory use against per-chunk tag overhead.
const DefaultChunkSize = 64 * 1024

// Stream format: [4 bytes magic] [4 bytes version] [8 bytes nonce prefix]
// [4 bytes chunk size], all integers big-endian, followed by chunks of
// [4 bytes sealed length] [sealed chunk]. The per-chunk nonce is the
// 8-byte prefix followed by the big-endian 4-byte chunk counter.
const (
	streamMagic       = "SPHS"
	streamVersion     = uint32(1)
	streamHeaderSize  = 4 + 4 + 8 + 4
	noncePrefixSize   = NonceSize - 4
	maxStreamChunkLen = 16 * 1024 * 1024
)

type streamEncryptor struct {
	hasher    *Hasher
	writer    io.Writer
	prefix    [noncePrefixSize]byte
	buffer    []byte
	chunkSize int
	chunk     uint32
	closed    bool
}

type streamDecryptor struct {
	hasher     *Hasher
	reader     io.Reader
	prefix     [noncePrefixSize]byte
	remaining  []byte
	scratch    []byte
	chunkSize  int
	chunk      uint32
	headerRead bool
	closed     bool
}

// NewStreamEncryptor creates a streaming encryptor over writer with the
// default chunk size.
func (h *Hasher) NewStreamEncryptor(writer io.Writer) (StreamEncryptor, error) {
	return h.NewStreamEncryptorWithChunkSize(writer, DefaultChunkSize)
}

// NewStreamEncryptorWithChunkSize creates a streaming encryptor with a
// custom plaintext chunk size. Smaller chunks use less memory but carry
// more tag overhead.
func (h *Hasher) NewStreamEncryptorWithChunkSize(writer io.Writer, chunkSize int) (StreamEncryptor, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	if chunkSize <= 0 || chunkSize > maxStreamChunkLen {
		return nil, goerrors.New("SPATIAL_INVALID_CHUNK_SIZE", fmt.Sprintf("chunk size must be between 1 and %d bytes", maxStreamChunkLen))
	}

	enc := &streamEncryptor{
		hasher:    h,
		writer:    writer,
		buffer:    getChunkBuffer(),
		chunkSize: chunkSize,
	}
	if _, err := io.ReadFull(rand.Reader, enc.prefix[:]); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeNonceGen, "failed to generate stream nonce prefix")
		return nil, fmt.Errorf("%w: %w", ErrNonceGen, richErr)
	}
	if err := enc.writeHeader(); err != nil {
		return nil, err
	}
	return enc, nil
}

// NewStreamDecryptor creates a streaming decryptor over reader. The
// stream header is read lazily on the first Read call.
func (h *Hasher) NewStreamDecryptor(reader io.Reader) (StreamDecryptor, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	return &streamDecryptor{hasher: h, reader: reader}, nil
}

func (e *streamEncryptor) writeHeader() error {
	header := make([]byte, 0, streamHeaderSize)
	header = append(header, streamMagic...)
	header = binary.BigEndian.AppendUint32(header, streamVersion)
	header = append(header, e.prefix[:]...)
	header = binary.BigEndian.AppendUint32(header, uint32(e.chunkSize)) // #nosec G115 -- bounded by maxStreamChunkLen
	if _, err := e.writer.Write(header); err != nil {
		return goerrors.Wrap(err, "SPATIAL_STREAM_WRITE", "failed to write stream header")
	}
	return nil
}

// Write buffers data and seals full chunks as they accumulate.
func (e *streamEncryptor) Write(data []byte) (int, error) {
	if e.closed {
		return 0, goerrors.New(ErrCodeClosed, "cannot write to closed stream encryptor")
	}

	total := 0
	for len(data) > 0 {
		available := e.chunkSize - len(e.buffer)
		n := len(data)
		if n > available {
			n = available
		}
		e.buffer = append(e.buffer, data[:n]...)
		data = data[n:]
		total += n

		if len(e.buffer) == e.chunkSize {
			if err := e.flushChunk(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Close flushes the final partial chunk and releases the chunk buffer.
func (e *streamEncryptor) Close() error {
	if e.closed {
		return nil
	}
	if len(e.buffer) > 0 {
		if err := e.flushChunk(); err != nil {
			return err
		}
	}
	putChunkBuffer(e.buffer)
	e.buffer = nil
	e.closed = true
	return nil
}

func (e *streamEncryptor) flushChunk() error {
	if e.chunk == ^uint32(0) {
		return goerrors.New("SPATIAL_STREAM_OVERFLOW", "maximum chunk count reached")
	}

	var nonce [NonceSize]byte
	copy(nonce[:], e.prefix[:])
	binary.BigEndian.PutUint32(nonce[noncePrefixSize:], e.chunk)
	e.chunk++

	sealed := e.hasher.aead.Seal(nil, nonce[:], e.buffer, nil)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(sealed))) // #nosec G115 -- chunk size is bounded
	if _, err := e.writer.Write(lenBuf[:]); err != nil {
		return goerrors.Wrap(err, "SPATIAL_STREAM_WRITE", "failed to write chunk length")
	}
	if _, err := e.writer.Write(sealed); err != nil {
		return goerrors.Wrap(err, "SPATIAL_STREAM_WRITE", "failed to write sealed chunk")
	}

	e.buffer = e.buffer[:0]
	return nil
}

func (d *streamDecryptor) readHeader() error {
	header := make([]byte, streamHeaderSize)
	if _, err := io.ReadFull(d.reader, header); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeMalformed, "failed to read stream header")
		return fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}
	if string(header[:4]) != streamMagic {
		richErr := goerrors.New(ErrCodeMalformed, "invalid stream magic")
		return fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}
	if v := binary.BigEndian.Uint32(header[4:8]); v != streamVersion {
		richErr := goerrors.New(ErrCodeMalformed, fmt.Sprintf("unsupported stream version %d", v))
		return fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}
	copy(d.prefix[:], header[8:8+noncePrefixSize])

	d.chunkSize = int(binary.BigEndian.Uint32(header[8+noncePrefixSize:]))
	if d.chunkSize <= 0 || d.chunkSize > maxStreamChunkLen {
		richErr := goerrors.New(ErrCodeMalformed, "invalid chunk size in stream header")
		return fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}

	d.headerRead = true
	return nil
}

// Read decrypts chunks on demand and fills data with plaintext.
func (d *streamDecryptor) Read(data []byte) (int, error) {
	if d.closed {
		return 0, goerrors.New(ErrCodeClosed, "cannot read from closed stream decryptor")
	}
	if !d.headerRead {
		if err := d.readHeader(); err != nil {
			return 0, err
		}
	}

	total := 0
	for len(data) > 0 {
		if len(d.remaining) > 0 {
			n := copy(data, d.remaining)
			d.remaining = d.remaining[n:]
			data = data[n:]
			total += n
			continue
		}

		chunk, err := d.readNextChunk()
		if err != nil {
			if err == io.EOF && total > 0 {
				return total, nil
			}
			return total, err
		}

		if len(chunk) == 0 {
			continue
		}

		n := copy(data, chunk)
		if n < len(chunk) {
			d.scratch = append(d.scratch[:0], chunk[n:]...)
			d.remaining = d.scratch
		}
		data = data[n:]
		total += n
	}
	return total, nil
}

// Close marks the decryptor as done and wipes buffered plaintext.
func (d *streamDecryptor) Close() error {
	if d.closed {
		return nil
	}
	Zeroize(d.scratch)
	d.remaining = nil
	d.closed = true
	return nil
}

func (d *streamDecryptor) readNextChunk() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(d.reader, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		richErr := goerrors.Wrap(err, ErrCodeMalformed, "failed to read chunk length")
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}

	sealedLen := binary.BigEndian.Uint32(lenBuf[:])
	if sealedLen < TagSize || int(sealedLen) > d.chunkSize+TagSize {
		richErr := goerrors.New(ErrCodeMalformed, "chunk length out of range")
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}

	sealed := make([]byte, sealedLen)
	if _, err := io.ReadFull(d.reader, sealed); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeMalformed, "failed to read sealed chunk")
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}

	if d.chunk == ^uint32(0) {
		return nil, goerrors.New("SPATIAL_STREAM_OVERFLOW", "maximum chunk count reached")
	}
	var nonce [NonceSize]byte
	copy(nonce[:], d.prefix[:])
	binary.BigEndian.PutUint32(nonce[noncePrefixSize:], d.chunk)
	d.chunk++

	plaintext, err := d.hasher.aead.Open(nil, nonce[:], sealed, nil)
	if err != nil {
		richErr := goerrors.New(ErrCodeAuth, "chunk verification failed")
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, richErr)
	}
	return plaintext, nil
}
