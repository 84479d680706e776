// encryption.go: Authenticated encryption and decryption framing.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// Wire format constants. The encrypted wire value is
//
//	nonce (NonceSize bytes) || ciphertext || tag (TagSize bytes)
//
// with no length prefix, version byte or additional authenticated data.
const (
	// NonceSize is the nonce length of ChaCha20-Poly1305 in bytes.
	NonceSize = chacha20poly1305.NonceSize

	// TagSize is the Poly1305 authentication tag length in bytes.
	TagSize = chacha20poly1305.Overhead
)

// Public standard errors for use with errors.Is().
var (
	// ErrInvalidParameter is returned at construction when the derivation
	// parameters cannot produce a well-defined key.
	ErrInvalidParameter = errors.New("spatialhasher: invalid derivation parameters")

	// ErrMalformedInput is returned at decryption when the input is too
	// short to contain a nonce and an authentication tag.
	ErrMalformedInput = errors.New("spatialhasher: malformed ciphertext")

	// ErrAuthentication is returned at decryption when tag verification
	// fails. It is deliberately uniform: tampered ciphertext, a wrong key
	// and a corrupted nonce are indistinguishable.
	ErrAuthentication = errors.New("spatialhasher: authentication failed")

	// ErrNonceGen is returned when the system random source fails.
	ErrNonceGen = errors.New("spatialhasher: nonce generation error")

	// ErrCipherInit is returned when AEAD initialization fails.
	ErrCipherInit = errors.New("spatialhasher: cipher initialization error")

	// ErrHasherClosed is returned when operating on a closed Hasher.
	ErrHasherClosed = errors.New("spatialhasher: hasher closed")

	// ErrBase64Decode is returned by DecryptString for invalid base64.
	ErrBase64Decode = errors.New("spatialhasher: base64 decode error")
)

// Error codes for rich error handling.
const (
	ErrCodeNonFinite     = "SPATIAL_NON_FINITE_PARAMETER"
	ErrCodeZeroAxis      = "SPATIAL_ZERO_AXIS"
	ErrCodeBadIterations = "SPATIAL_INVALID_ITERATIONS"
	ErrCodeBadEncoding   = "SPATIAL_PARAMS_DECODE"
	ErrCodeKeyDerivation = "SPATIAL_KEY_DERIVATION"
	ErrCodeCipherInit    = "SPATIAL_CIPHER_INIT"
	ErrCodeNonceGen      = "SPATIAL_NONCE_GEN"
	ErrCodeMalformed     = "SPATIAL_CIPHERTEXT_SHORT"
	ErrCodeAuth          = "SPATIAL_AUTH_FAILED"
	ErrCodeClosed        = "SPATIAL_HASHER_CLOSED"
	ErrCodeBase64Decode  = "SPATIAL_BASE64_DECODE"
)

// Encrypt encrypts plaintext with the derived key using ChaCha20-Poly1305.
//
// A fresh random nonce is drawn from crypto/rand for every call, so two
// encryptions of the same plaintext produce different wire values. The
// output is nonce || ciphertext+tag and is always exactly
// NonceSize + len(plaintext) + TagSize bytes.
//
// Empty plaintext is valid and produces nonce+tag only. Encryption has no
// failure path other than the random source or a closed Hasher.
func (h *Hasher) Encrypt(plaintext []byte) ([]byte, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}

	nonceBuffer := getBuffer(NonceSize)
	defer putBuffer(nonceBuffer)
	nonce := (*nonceBuffer)[:NonceSize]

	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeNonceGen, "failed to generate nonce")
		return nil, fmt.Errorf("%w: %w", ErrNonceGen, richErr)
	}

	wire := make([]byte, 0, NonceSize+len(plaintext)+TagSize)
	wire = append(wire, nonce...)
	wire = h.aead.Seal(wire, nonce, plaintext, nil)
	return wire, nil
}

// Decrypt verifies and decrypts a wire value produced by Encrypt.
//
// Inputs shorter than NonceSize+TagSize cannot contain a nonce and a tag
// and fail with ErrMalformedInput. Tag verification failure — tampered
// ciphertext, wrong key material or a corrupted nonce — fails with the
// uniform ErrAuthentication; Poly1305 verification is constant time with
// respect to where the mismatch occurs. On failure no plaintext is ever
// returned, partial or otherwise.
func (h *Hasher) Decrypt(wire []byte) ([]byte, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}

	if len(wire) < NonceSize+TagSize {
		richErr := goerrors.New(ErrCodeMalformed, fmt.Sprintf("ciphertext too short: need at least %d bytes, got %d", NonceSize+TagSize, len(wire)))
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, richErr)
	}

	nonce := wire[:NonceSize]
	sealed := wire[NonceSize:]

	plaintext, err := h.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Single uniform error: never leak why verification failed.
		richErr := goerrors.New(ErrCodeAuth, "ciphertext verification failed")
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, richErr)
	}
	return plaintext, nil
}

// EncryptString encrypts a string and returns the wire value encoded as
// standard base64, convenient for text-based storage and transport.
func (h *Hasher) EncryptString(plaintext string) (string, error) {
	wire, err := h.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wire), nil
}

// DecryptString decrypts a base64-encoded wire value produced by
// EncryptString and returns the plaintext as a string.
func (h *Hasher) DecryptString(encoded string) (string, error) {
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeBase64Decode, "failed to decode base64 ciphertext")
		return "", fmt.Errorf("%w: %w", ErrBase64Decode, richErr)
	}
	plaintext, err := h.Decrypt(wire)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
