// params.go: Derivation parameter set, validation, and JSON serialization.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"encoding/json"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Parameters is the complete geometric parameter set that determines a
// derived key. Two Hasher instances constructed from equal Parameters
// produce bit-identical keys.
//
// Parameters are treated as secret key material: anyone who knows them can
// regenerate the key. The JSON support exists so callers can persist or
// transport parameters through their own secure channels; it is a caller
// convenience, not part of the security boundary.
//
// Example:
//
//	params := spatialhasher.Parameters{
//		Point:      spatialhasher.Point3D{X: 1.0, Y: 2.0, Z: 3.0},
//		Axis:       spatialhasher.RotationAxis{X: 0.0, Y: 1.0, Z: 0.0},
//		Iterations: 10,
//		Strength:   0.1,
//	}
type Parameters struct {
	// Point is the starting point of the iterative transform.
	Point Point3D `json:"point"`

	// Axis is the rotation axis. Must not be the zero vector.
	Axis RotationAxis `json:"rotation_axis"`

	// Iterations is the number of transform steps. Must be non-negative.
	// Zero is valid: the key is then derived from the parameters alone.
	Iterations int `json:"iterations"`

	// Strength controls the per-iteration rotation angle and scaling.
	// Must be finite. Zero yields pure rotation with no scaling.
	Strength float64 `json:"strength"`
}

// Validate checks that the parameter set can produce a well-defined key.
//
// It returns ErrInvalidParameter (wrapping a rich error with a specific
// code) when the rotation axis is zero-length, the iteration count is
// negative, or any coordinate or the strength is non-finite.
func (p Parameters) Validate() error {
	if !p.Point.IsFinite() {
		richErr := goerrors.New(ErrCodeNonFinite, "point coordinates must be finite")
		return fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	if !p.Axis.IsFinite() {
		richErr := goerrors.New(ErrCodeNonFinite, "rotation axis components must be finite")
		return fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	if p.Axis.IsZero() {
		richErr := goerrors.New(ErrCodeZeroAxis, "rotation axis must not be the zero vector")
		return fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	if p.Iterations < 0 {
		richErr := goerrors.New(ErrCodeBadIterations, fmt.Sprintf("iteration count must be non-negative (got %d)", p.Iterations))
		return fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	if !isFinite(p.Strength) {
		richErr := goerrors.New(ErrCodeNonFinite, "strength must be finite")
		return fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	return nil
}

// ParametersFromJSON decodes a parameter set previously serialized with
// encoding/json and validates it.
//
// Returns:
//   - The decoded Parameters
//   - An error if the JSON is malformed or the parameters are invalid
func ParametersFromJSON(data []byte) (Parameters, error) {
	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		richErr := goerrors.Wrap(err, ErrCodeBadEncoding, "failed to decode parameters")
		return Parameters{}, fmt.Errorf("%w: %w", ErrInvalidParameter, richErr)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}
