// geometry.go: 3D geometric value types used as key-derivation parameters.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"encoding/binary"
	"math"
)

// Point3D represents a point in 3D space with floating-point coordinates.
//
// Points are plain values; the only requirement for use as a derivation
// parameter is that every coordinate is finite (not NaN or infinite).
// The JSON field names match the original spatial-hasher serialization
// format, so parameters can be exchanged with other implementations.
//
// Example:
//
//	point := spatialhasher.Point3D{X: 1.0, Y: 2.0, Z: 3.0}
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsFinite reports whether all coordinates are finite (not NaN or ±Inf).
func (p Point3D) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// RotationAxis represents an axis of rotation in 3D space.
//
// The axis must not be the zero vector: a zero-length axis has no defined
// rotation and fails validation at Hasher construction time. The axis is
// normalized to unit length before use by the transform engine; the raw
// components as provided by the caller are what feed key derivation.
//
// Example:
//
//	axis := spatialhasher.RotationAxis{X: 0.0, Y: 1.0, Z: 0.0}
type RotationAxis struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsFinite reports whether all components are finite (not NaN or ±Inf).
func (a RotationAxis) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

// IsZero reports whether the axis is the zero vector.
func (a RotationAxis) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}

// normalized returns the axis scaled to unit length.
// math.Sqrt is correctly rounded by IEEE 754, so the result is
// bit-identical across platforms. The explicit float64 conversions keep
// the compiler from fusing the multiply-adds into FMAs, whose single
// rounding would differ between architectures. Callers must reject zero
// axes first.
func (a RotationAxis) normalized() (x, y, z float64) {
	norm := math.Sqrt(float64(a.X*a.X) + float64(a.Y*a.Y) + float64(a.Z*a.Z))
	return a.X / norm, a.Y / norm, a.Z / norm
}

// isFinite reports whether f is neither NaN nor infinite.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// appendFloatBits appends the big-endian IEEE 754 bit pattern of f.
// This is the canonical byte encoding used throughout key derivation:
// the bit pattern, not a decimal rendering, so that every distinct float
// value (including negative zero) has exactly one encoding.
func appendFloatBits(b []byte, f float64) []byte {
	return binary.BigEndian.AppendUint64(b, math.Float64bits(f))
}
