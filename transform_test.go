// transform_test.go: Test cases for the iterative transform engine.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import (
	"bytes"
	"math"
	"testing"
)

func TestDetSincos_MatchesStdlib(t *testing.T) {
	// The deterministic series must agree with libm to well below any
	// plausible rounding divergence over a representative angle range.
	angles := []float64{
		0, 0.1, -0.1, 0.5, 1.0, -1.0, math.Pi / 2, -math.Pi / 2,
		3.0, -3.0, math.Pi, -math.Pi, 6.5, 100.0, -1234.5, 1e6,
	}
	for _, a := range angles {
		sin, cos := detSincos(a)
		if math.Abs(sin-math.Sin(a)) > 1e-9 {
			t.Errorf("detSincos(%v) sin = %v, want ~%v", a, sin, math.Sin(a))
		}
		if math.Abs(cos-math.Cos(a)) > 1e-9 {
			t.Errorf("detSincos(%v) cos = %v, want ~%v", a, cos, math.Cos(a))
		}
	}
}

func TestDetSincos_Deterministic(t *testing.T) {
	for _, a := range []float64{0.1, 1.7, -42.0, 9999.25} {
		s1, c1 := detSincos(a)
		s2, c2 := detSincos(a)
		if math.Float64bits(s1) != math.Float64bits(s2) || math.Float64bits(c1) != math.Float64bits(c2) {
			t.Errorf("detSincos(%v) is not bit-stable", a)
		}
	}
}

func TestTransformSequence_Length(t *testing.T) {
	params := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 17,
		Strength:   0.1,
	}
	states := transformSequence(params)
	if len(states) != params.Iterations {
		t.Fatalf("expected %d states, got %d", params.Iterations, len(states))
	}
}

func TestTransformSequence_ZeroIterations(t *testing.T) {
	params := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 0,
		Strength:   0.1,
	}
	if states := transformSequence(params); states != nil {
		t.Fatalf("expected empty trajectory for zero iterations, got %d states", len(states))
	}
}

func TestTransformSequence_ZeroStrength(t *testing.T) {
	// Strength zero means rotation by zero radians and no scaling: the
	// point must be reproduced bit-exactly at every step.
	start := Point3D{X: 1.25, Y: -2.5, Z: 3.75}
	params := Parameters{
		Point:      start,
		Axis:       RotationAxis{X: 0.5, Y: 0.5, Z: 0.5},
		Iterations: 5,
		Strength:   0,
	}
	for i, s := range transformSequence(params) {
		if s.Point != start {
			t.Errorf("state %d: point %+v, want %+v", i, s.Point, start)
		}
		if s.Angle != 0 {
			t.Errorf("state %d: accumulated angle %v, want 0", i, s.Angle)
		}
	}
}

func TestTransformSequence_Deterministic(t *testing.T) {
	params := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{X: 0.1, Y: 0.9, Z: -0.3},
		Iterations: 50,
		Strength:   0.37,
	}
	a := transformSequence(params)
	b := transformSequence(params)
	for i := range a {
		if math.Float64bits(a[i].Point.X) != math.Float64bits(b[i].Point.X) ||
			math.Float64bits(a[i].Point.Y) != math.Float64bits(b[i].Point.Y) ||
			math.Float64bits(a[i].Point.Z) != math.Float64bits(b[i].Point.Z) ||
			math.Float64bits(a[i].Angle) != math.Float64bits(b[i].Angle) {
			t.Fatalf("trajectory diverges at state %d", i)
		}
	}
}

func TestRotateAboutAxis_QuarterTurn(t *testing.T) {
	// Rotating (1,0,0) about the Y axis by π/2 lands on (0,0,-1).
	p := rotateAboutAxis(Point3D{X: 1}, 0, 1, 0, math.Pi/2)
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z+1) > 1e-9 {
		t.Errorf("quarter turn about Y: got %+v, want (0,0,-1)", p)
	}
}

func TestRotateAboutAxis_PreservesMagnitude(t *testing.T) {
	p := Point3D{X: 3, Y: -4, Z: 12}
	want := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	kx, ky, kz := RotationAxis{X: 1, Y: 1, Z: -2}.normalized()
	r := rotateAboutAxis(p, kx, ky, kz, 1.234)
	got := math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("rotation changed magnitude: %v -> %v", want, got)
	}
}

func TestDeriveKey_EqualParamsEqualKey(t *testing.T) {
	params := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 10,
		Strength:   0.1,
	}
	k1, err := deriveKey(params, transformSequence(params))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	k2, err := deriveKey(params, transformSequence(params))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("equal parameters produced different keys")
	}
	if len(k1) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(k1))
	}
}

func TestDeriveKey_IterationSensitivity(t *testing.T) {
	base := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 10,
		Strength:   0.1,
	}
	k10, err := deriveKey(base, transformSequence(base))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	next := base
	next.Iterations = 11
	k11, err := deriveKey(next, transformSequence(next))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if bytes.Equal(k10, k11) {
		t.Error("iteration counts 10 and 11 produced the same key")
	}
}

func TestDeriveKey_CoordinateLSBSensitivity(t *testing.T) {
	base := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 10,
		Strength:   0.1,
	}
	k1, err := deriveKey(base, transformSequence(base))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}

	// Flip the least significant mantissa bit of one coordinate.
	tweaked := base
	tweaked.Point.X = math.Float64frombits(math.Float64bits(base.Point.X) ^ 1)
	k2, err := deriveKey(tweaked, transformSequence(tweaked))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if bytes.Equal(k1, k2) {
		t.Error("single-LSB coordinate change did not change the key")
	}
}

func TestDeriveKey_ZeroIterationsHashesParamsAlone(t *testing.T) {
	params := Parameters{
		Point:      Point3D{X: 1, Y: 2, Z: 3},
		Axis:       RotationAxis{Y: 1},
		Iterations: 0,
		Strength:   0.1,
	}
	key, err := deriveKey(params, nil)
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("expected %d-byte key, got %d", KeySize, len(key))
	}
}
