// keyutils.go: Key material hygiene and randomness helpers.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// Zeroize securely wipes a byte slice from memory.
//
// This overwrites all bytes in the slice with zeros so that sensitive
// data does not linger in memory after use. The slice is modified in
// place.
//
// Example:
//
//	buf := deriveSomething()
//	defer spatialhasher.Zeroize(buf)
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// keyFingerprint generates a short non-secret identifier for a key: the
// first 8 bytes of its SHA-256 hash in hex. Useful for confirming key
// agreement and for logging without exposing key material.
func keyFingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	hash := sha256.Sum256(key)
	return fmt.Sprintf("%016x", hash[:8])
}

// GenerateNonce generates a cryptographically secure random nonce of the
// given size.
//
// crypto/rand is safe for concurrent use, so two goroutines encrypting at
// the same time can never draw the same nonce other than by the birthday
// bound of the nonce space.
//
// Parameters:
//   - size: The desired size of the nonce in bytes (must be positive)
//
// Returns:
//   - A byte slice containing the random nonce
//   - An error if the random source fails
func GenerateNonce(size int) ([]byte, error) {
	if size <= 0 {
		return nil, goerrors.New(ErrCodeNonceGen, "nonce size must be positive")
	}
	nonce := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeNonceGen, "failed to generate nonce")
		return nil, fmt.Errorf("%w: %w", ErrNonceGen, richErr)
	}
	return nonce, nil
}
