// hasher.go: Hasher construction, lifecycle and metadata.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"crypto/cipher"
	"fmt"
	"sync/atomic"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	"golang.org/x/crypto/chacha20poly1305"
)

// Hasher derives a symmetric key from geometric parameters and performs
// authenticated encryption and decryption with it.
//
// The key is derived exactly once, at construction, by running the
// iterative transform and reducing the trajectory with SHA-256/HKDF. The
// Hasher holds the key and a cached ChaCha20-Poly1305 instance for its
// whole lifetime; individual Encrypt and Decrypt calls are stateless, so
// a Hasher may be shared across goroutines without locking.
//
// Call Close when done to zeroize the key material. The derived key is
// never exposed to callers.
//
// Example:
//
//	hasher, err := spatialhasher.New(spatialhasher.Parameters{
//		Point:      spatialhasher.Point3D{X: 1.0, Y: 2.0, Z: 3.0},
//		Axis:       spatialhasher.RotationAxis{X: 0.0, Y: 1.0, Z: 0.0},
//		Iterations: 10,
//		Strength:   0.1,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer hasher.Close()
//
//	wire, err := hasher.Encrypt([]byte("Hello, World!"))
type Hasher struct {
	params      Parameters
	key         []byte
	aead        cipher.AEAD
	fingerprint string
	derivedAt   time.Time
	closed      atomic.Bool
}

// HasherInfo is non-secret metadata about a Hasher, suitable for logging
// and diagnostics by callers. It never contains key material.
type HasherInfo struct {
	// Fingerprint identifies the derived key (SHA-256 prefix, hex).
	Fingerprint string `json:"fingerprint"`

	// Algorithm is the AEAD cipher in use.
	Algorithm string `json:"algorithm"`

	// Iterations is the configured transform iteration count.
	Iterations int `json:"iterations"`

	// DerivedAt is when the key was derived (Hasher construction time).
	DerivedAt time.Time `json:"derived_at"`
}

// Algorithm identifier reported by HasherInfo.
const algorithmName = "ChaCha20-Poly1305"

// New constructs a Hasher from the given parameters.
//
// Construction validates the parameters, runs the iterative transform and
// derives the key, so it costs time proportional to the iteration count.
// The returned Hasher is immutable and safe for concurrent use.
//
// Returns ErrInvalidParameter if the rotation axis is zero-length, the
// iteration count is negative, or any coordinate or the strength is
// non-finite. No partial Hasher is ever produced.
func New(params Parameters) (*Hasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	states := transformSequence(params)
	key, err := deriveKey(params, states)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		Zeroize(key)
		richErr := goerrors.Wrap(err, ErrCodeCipherInit, "failed to initialize ChaCha20-Poly1305")
		return nil, fmt.Errorf("%w: %w", ErrCipherInit, richErr)
	}

	return &Hasher{
		params:      params,
		key:         key,
		aead:        aead,
		fingerprint: keyFingerprint(key),
		derivedAt:   timecache.CachedTime().UTC(),
	}, nil
}

// Parameters returns a copy of the parameters this Hasher was built from.
func (h *Hasher) Parameters() Parameters {
	return h.params
}

// Fingerprint returns a short non-secret identifier of the derived key,
// useful for confirming that two parties derived the same key without
// revealing it.
func (h *Hasher) Fingerprint() string {
	return h.fingerprint
}

// Info returns non-secret metadata about this Hasher.
func (h *Hasher) Info() HasherInfo {
	return HasherInfo{
		Fingerprint: h.fingerprint,
		Algorithm:   algorithmName,
		Iterations:  h.params.Iterations,
		DerivedAt:   h.derivedAt,
	}
}

// Close zeroizes the derived key and marks the Hasher unusable. Further
// Encrypt or Decrypt calls return ErrHasherClosed. Close is idempotent
// and safe to call concurrently with itself.
//
// Note: the cached cipher instance retains an expanded key schedule until
// garbage collected; Close removes the primary copy of the key material.
func (h *Hasher) Close() {
	if h.closed.Swap(true) {
		return
	}
	Zeroize(h.key)
}

// checkOpen returns an error if the Hasher has been closed.
func (h *Hasher) checkOpen() error {
	if h.closed.Load() {
		richErr := goerrors.New(ErrCodeClosed, "hasher has been closed")
		return fmt.Errorf("%w: %w", ErrHasherClosed, richErr)
	}
	return nil
}
