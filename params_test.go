// params_test.go: Test cases for parameter validation and serialization.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spatialhasher "github.com/Wolfenheimm/Spatial-Hasher"
)

func validParams() spatialhasher.Parameters {
	return spatialhasher.Parameters{
		Point:      spatialhasher.Point3D{X: 1.0, Y: 2.0, Z: 3.0},
		Axis:       spatialhasher.RotationAxis{X: 0.0, Y: 1.0, Z: 0.0},
		Iterations: 10,
		Strength:   0.1,
	}
}

func TestParameters_Validate_Valid(t *testing.T) {
	assert.NoError(t, validParams().Validate())

	// Zero iterations and zero strength are both valid.
	p := validParams()
	p.Iterations = 0
	p.Strength = 0
	assert.NoError(t, p.Validate())
}

func TestParameters_Validate_ZeroAxis(t *testing.T) {
	p := validParams()
	p.Axis = spatialhasher.RotationAxis{}
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, spatialhasher.ErrInvalidParameter)
}

func TestParameters_Validate_NegativeIterations(t *testing.T) {
	p := validParams()
	p.Iterations = -1
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, spatialhasher.ErrInvalidParameter)
}

func TestParameters_Validate_NonFinite(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*spatialhasher.Parameters)
	}{
		{"nan point", func(p *spatialhasher.Parameters) { p.Point.X = math.NaN() }},
		{"inf point", func(p *spatialhasher.Parameters) { p.Point.Z = math.Inf(1) }},
		{"nan axis", func(p *spatialhasher.Parameters) { p.Axis.Y = math.NaN() }},
		{"inf axis", func(p *spatialhasher.Parameters) { p.Axis.X = math.Inf(-1) }},
		{"nan strength", func(p *spatialhasher.Parameters) { p.Strength = math.NaN() }},
		{"inf strength", func(p *spatialhasher.Parameters) { p.Strength = math.Inf(1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, spatialhasher.ErrInvalidParameter)
		})
	}
}

func TestParameters_JSONRoundTrip(t *testing.T) {
	p := validParams()
	data, err := json.Marshal(p)
	require.NoError(t, err)

	decoded, err := spatialhasher.ParametersFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)

	// A round-tripped parameter set derives the identical key.
	h1, err := spatialhasher.New(p)
	require.NoError(t, err)
	defer h1.Close()
	h2, err := spatialhasher.New(decoded)
	require.NoError(t, err)
	defer h2.Close()
	assert.Equal(t, h1.Fingerprint(), h2.Fingerprint())
}

func TestParameters_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(validParams())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{"point", "rotation_axis", "iterations", "strength"} {
		assert.Contains(t, raw, field)
	}
}

func TestParametersFromJSON_Malformed(t *testing.T) {
	_, err := spatialhasher.ParametersFromJSON([]byte("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, spatialhasher.ErrInvalidParameter)
}

func TestParametersFromJSON_InvalidParams(t *testing.T) {
	// Well-formed JSON carrying an invalid (zero) axis must still fail.
	data := []byte(`{"point":{"x":1,"y":2,"z":3},"rotation_axis":{"x":0,"y":0,"z":0},"iterations":10,"strength":0.1}`)
	_, err := spatialhasher.ParametersFromJSON(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, spatialhasher.ErrInvalidParameter)
}
