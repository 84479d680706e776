// doc.go: Package documentation.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

// Package spatialhasher derives symmetric keys deterministically from 3D
// spatial parameters and uses them for authenticated encryption.
//
// Two parties who independently know the same parameters — a starting
// point, a rotation axis, an iteration count and a strength factor — can
// regenerate the identical 256-bit key without ever transmitting or
// storing it. The key feeds ChaCha20-Poly1305 authenticated encryption,
// protecting both confidentiality and integrity of arbitrary byte
// payloads.
//
// # How keys are derived
//
// The parameters drive an iterative geometric transform: the point is
// rotated about the (normalized) axis by strength×i radians at iteration
// i and its magnitude scaled by (1 + strength). The full trajectory plus
// the original parameters is serialized canonically (big-endian IEEE 754
// bit patterns), hashed with SHA-256 and stretched to the AEAD key size
// with HKDF-Expand. All transform arithmetic uses fixed-order float64
// operations and an in-package deterministic sin/cos, so the same
// parameters yield bit-identical keys on every platform.
//
// # Quick start
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
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plaintext, err := hasher.Decrypt(wire)
//	if err != nil {
//		log.Fatal(err) // tampering or wrong parameters
//	}
//
// The wire format is nonce || ciphertext || tag with no further framing.
// EncryptString and DecryptString wrap the same operations in base64 for
// text-based storage.
//
// # Streaming
//
// For payloads too large to hold in memory, NewStreamEncryptor and
// NewStreamDecryptor process data in independently authenticated chunks
// under the same derived key:
//
//	enc, _ := hasher.NewStreamEncryptor(out)
//	io.Copy(enc, in)
//	enc.Close()
//
// # Security model
//
// The parameters are the secret: anyone who knows them can regenerate the
// key. The package does not manage parameter distribution or storage,
// provides no forward secrecy and no key rotation. A Hasher is safe for
// concurrent use; Close zeroizes the derived key.
package spatialhasher
