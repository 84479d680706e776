// transform.go: Iterative geometric transform engine.
//
// The transform walks a point through 3D space by repeatedly rotating it
// about a fixed axis and scaling its magnitude. The resulting trajectory,
// together with the input parameters, is the sole input to key derivation,
// so every arithmetic step here must be bit-reproducible across platforms.
//
// Copyright (c) 2025 The Spatial-Hasher Authors
// SPDX-License-Identifier: MIT

package spatialhasher

import "math"

// TransformState is one step of the transform trajectory: the point after
// the rotation and scaling of that iteration, and the total rotation angle
// accumulated so far. States exist only transiently during key derivation
// and are never persisted.
type TransformState struct {
	Point Point3D
	Angle float64
}

// transformSequence produces the deterministic trajectory for params.
//
// The per-iteration formula, fixed for interoperability:
//
//	θ_i = strength × i                          (radians, i = 1..N)
//	p_i = rodrigues(p_{i-1}, k, θ_i) × (1 + strength)
//	state_i = (p_i, θ_1 + ... + θ_i)
//
// where k is the unit-length rotation axis. An iteration count of zero
// yields an empty trajectory; strength zero yields pure rotation by a
// zero angle, so the point is reproduced unchanged at every step.
//
// Every operation is a single IEEE 754 float64 add, subtract, multiply,
// divide or square root in a fixed evaluation order, and sin/cos go
// through detSincos rather than platform libm, so equal inputs give
// bit-identical trajectories on every platform.
func transformSequence(params Parameters) []TransformState {
	if params.Iterations == 0 {
		return nil
	}

	kx, ky, kz := params.Axis.normalized()
	scale := 1 + params.Strength

	states := make([]TransformState, 0, params.Iterations)
	cur := params.Point
	accum := 0.0

	for i := 1; i <= params.Iterations; i++ {
		theta := params.Strength * float64(i)
		cur = rotateAboutAxis(cur, kx, ky, kz, theta)
		cur.X *= scale
		cur.Y *= scale
		cur.Z *= scale
		accum += theta
		states = append(states, TransformState{Point: cur, Angle: accum})
	}
	return states
}

// rotateAboutAxis rotates p about the unit axis (kx, ky, kz) by theta
// radians using the Rodrigues rotation formula:
//
//	v' = v·cosθ + (k×v)·sinθ + k·(k·v)·(1−cosθ)
//
// expanded term by term in a fixed order. Every product is forced
// through an explicit float64 conversion so the compiler cannot fuse a
// multiply-add into an FMA, whose single rounding would make results
// differ between architectures.
func rotateAboutAxis(p Point3D, kx, ky, kz, theta float64) Point3D {
	sin, cos := detSincos(theta)
	oneMinusCos := 1 - cos

	// k×v
	crossX := float64(ky*p.Z) - float64(kz*p.Y)
	crossY := float64(kz*p.X) - float64(kx*p.Z)
	crossZ := float64(kx*p.Y) - float64(ky*p.X)

	// k·v
	dot := float64(kx*p.X) + float64(ky*p.Y) + float64(kz*p.Z)

	scaled := dot * oneMinusCos
	return Point3D{
		X: float64(p.X*cos) + float64(crossX*sin) + float64(kx*scaled),
		Y: float64(p.Y*cos) + float64(crossY*sin) + float64(ky*scaled),
		Z: float64(p.Z*cos) + float64(crossZ*sin) + float64(kz*scaled),
	}
}

const (
	pi    = 3.141592653589793238462643383279502884
	twoPi = 2 * pi
)

// detSincos computes sin(x) and cos(x) without the platform math library.
//
// The argument is reduced into [-π, π] with math.Mod (exact under IEEE
// 754), then both Taylor series are evaluated with Horner's scheme over a
// fixed number of terms, highest order first. The series error at the
// edge of the reduced range is below 1e-15; what matters here is that the
// result is bit-identical on every platform, compiler and optimization
// level, which libm sin/cos do not guarantee.
func detSincos(x float64) (sin, cos float64) {
	r := math.Mod(x, twoPi)
	if r > pi {
		r -= twoPi
	} else if r < -pi {
		r += twoPi
	}

	x2 := r * r

	// sin(r)/r = Σ (-1)^k · x²ᵏ / (2k+1)!, k = 0..14
	s := 1.0 / 8841761993739701954543616000000 // 1/29!
	s = float64(s*x2) - 1.0/10888869450418352160768000000
	s = float64(s*x2) + 1.0/15511210043330985984000000
	s = float64(s*x2) - 1.0/25852016738884976640000
	s = float64(s*x2) + 1.0/51090942171709440000
	s = float64(s*x2) - 1.0/121645100408832000
	s = float64(s*x2) + 1.0/355687428096000
	s = float64(s*x2) - 1.0/1307674368000
	s = float64(s*x2) + 1.0/6227020800
	s = float64(s*x2) - 1.0/39916800
	s = float64(s*x2) + 1.0/362880
	s = float64(s*x2) - 1.0/5040
	s = float64(s*x2) + 1.0/120
	s = float64(s*x2) - 1.0/6
	s = float64(s*x2) + 1
	sin = r * s

	// cos(r) = Σ (-1)^k · x²ᵏ / (2k)!, k = 0..14
	c := 1.0 / 304888344611713860501504000000 // 1/28!
	c = float64(c*x2) - 1.0/403291461126605635584000000
	c = float64(c*x2) + 1.0/620448401733239439360000
	c = float64(c*x2) - 1.0/1124000727777607680000
	c = float64(c*x2) + 1.0/2432902008176640000
	c = float64(c*x2) - 1.0/6402373705728000
	c = float64(c*x2) + 1.0/20922789888000
	c = float64(c*x2) - 1.0/87178291200
	c = float64(c*x2) + 1.0/479001600
	c = float64(c*x2) - 1.0/3628800
	c = float64(c*x2) + 1.0/40320
	c = float64(c*x2) - 1.0/720
	c = float64(c*x2) + 1.0/24
	c = float64(c*x2) - 1.0/2
	c = float64(c*x2) + 1
	cos = c

	return sin, cos
}
