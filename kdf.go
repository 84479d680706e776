// kdf.go: Reduction of the transform trajectory to a fixed-size key.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the size in bytes of the derived symmetric key: the key size
// of ChaCha20-Poly1305, 32 bytes (256 bits).
const KeySize = chacha20poly1305.KeySize

// kdfInfo is the HKDF context string binding derived keys to this scheme.
// Changing it changes every derived key, so it is part of the wire-level
// interoperability contract along with the transform formula.
const kdfInfo = "spatial-hasher/key/v1"

// deriveKey reduces the transform trajectory and the original parameters
// to a KeySize-byte key, deterministically.
//
// Canonical serialization: for each TransformState in order, the
// big-endian IEEE 754 bit patterns of x, y, z and the accumulated angle;
// then the original point, the rotation axis exactly as provided by the
// caller, the iteration count as a big-endian uint64, and the strength.
// The concatenation is hashed with SHA-256 and the digest stretched to
// KeySize bytes with HKDF-Expand-SHA256 under kdfInfo.
//
// Equal parameters therefore produce bit-identical keys, and any single
// bit of difference in any parameter reaches the hash input, inheriting
// the avalanche property of SHA-256.
func deriveKey(params Parameters, states []TransformState) ([]byte, error) {
	// 4 floats per state + 7 floats of parameters + the iteration count.
	buf := make([]byte, 0, (len(states)*4+8)*8)

	for _, s := range states {
		buf = appendFloatBits(buf, s.Point.X)
		buf = appendFloatBits(buf, s.Point.Y)
		buf = appendFloatBits(buf, s.Point.Z)
		buf = appendFloatBits(buf, s.Angle)
	}

	buf = appendFloatBits(buf, params.Point.X)
	buf = appendFloatBits(buf, params.Point.Y)
	buf = appendFloatBits(buf, params.Point.Z)
	buf = appendFloatBits(buf, params.Axis.X)
	buf = appendFloatBits(buf, params.Axis.Y)
	buf = appendFloatBits(buf, params.Axis.Z)
	buf = binary.BigEndian.AppendUint64(buf, uint64(params.Iterations))
	buf = appendFloatBits(buf, params.Strength)

	digest := sha256.Sum256(buf)
	Zeroize(buf)

	key := make([]byte, KeySize)
	expand := hkdf.Expand(sha256.New, digest[:], []byte(kdfInfo))
	if _, err := io.ReadFull(expand, key); err != nil {
		Zeroize(digest[:])
		return nil, goerrors.Wrap(err, ErrCodeKeyDerivation, "failed to expand derived key")
	}
	Zeroize(digest[:])

	return key, nil
}
