// Package testutil provides reusable assertions and synthetic motions for
// interpolator tests.
package testutil

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/motion"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	AngleTolerance   = 1e-6 // degrees
	QuatTolerance    = 1e-9
)

// AssertVecInDelta verifies that every component of actual is within
// tolerance of expected.
func AssertVecInDelta(t *testing.T, expected, actual r3.Vec, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	ok := assert.InDelta(t, expected.X, actual.X, tolerance, msgAndArgs...)
	ok = assert.InDelta(t, expected.Y, actual.Y, tolerance, msgAndArgs...) && ok
	ok = assert.InDelta(t, expected.Z, actual.Z, tolerance, msgAndArgs...) && ok
	return ok
}

// AssertUnitQuat verifies that |q| = 1 within tolerance.
func AssertUnitQuat(t *testing.T, q quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDelta(t, 1.0, quat.Abs(q), tolerance, msgAndArgs...)
}

// AssertSameRotation verifies that a and b represent the same rotation,
// accepting either sign (q and -q are the same orientation).
func AssertSameRotation(t *testing.T, a, b quat.Number, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	d := math.Min(quat.Abs(quat.Sub(a, b)), quat.Abs(quat.Add(a, b)))
	if d > tolerance {
		return assert.Fail(t, "rotations differ",
			"a=%v b=%v distance=%e exceeds %e", a, b, d, tolerance)
	}
	return true
}

// AssertPostureEqual verifies that two postures are bit-for-bit identical.
func AssertPostureEqual(t *testing.T, expected, actual motion.Posture, msgAndArgs ...any) bool {
	t.Helper()
	if !expected.Equal(actual) {
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertStrictlyBetween verifies that value lies strictly between a and b,
// in either order. Equal bounds require value to equal them.
func AssertStrictlyBetween(t *testing.T, value, a, b float64, msgAndArgs ...any) bool {
	t.Helper()
	lo, hi := math.Min(a, b), math.Max(a, b)
	if lo == hi {
		return assert.InDelta(t, lo, value, DefaultTolerance, msgAndArgs...)
	}
	if value <= lo || value >= hi {
		return assert.Fail(t, "value not strictly between bounds",
			"value %f is outside (%f, %f)", value, lo, hi)
	}
	return true
}

// RampMotion builds a motion whose channels all move at constant, distinct
// speeds. Rotations stay well away from ±90° pitch.
func RampMotion(numFrames, numBones int) *motion.Motion {
	return SyntheticMotion(numFrames, numBones, func(frame, bone int) r3.Vec {
		f := float64(frame)
		b := float64(bone)
		return r3.Vec{X: 1.5*f + b, Y: -0.75*f + 0.5*b, Z: 0.5*f - b}
	}, func(frame int) r3.Vec {
		f := float64(frame)
		return r3.Vec{X: f, Y: 2 * f, Z: -3 * f}
	})
}

// WaveMotion builds a motion with smooth sinusoidal rotations, useful for
// comparing interpolants against a known ground truth.
func WaveMotion(numFrames, numBones int) *motion.Motion {
	return SyntheticMotion(numFrames, numBones, func(frame, bone int) r3.Vec {
		f := float64(frame) * 0.1
		b := float64(bone + 1)
		return r3.Vec{
			X: 40 * math.Sin(f+b),
			Y: 25 * math.Cos(0.7*f+b),
			Z: 60 * math.Sin(0.5*f-b),
		}
	}, func(frame int) r3.Vec {
		f := float64(frame) * 0.1
		return r3.Vec{X: 10 * math.Sin(f), Y: 15 + math.Cos(f), Z: f}
	})
}

// SyntheticMotion builds a motion over a flat skeleton of numBones bones
// (root included) using the given generators.
func SyntheticMotion(numFrames, numBones int, bone func(frame, bone int) r3.Vec, root func(frame int) r3.Vec) *motion.Motion {
	names := make([]string, 0, max(numBones-1, 0))
	for i := 1; i < numBones; i++ {
		names = append(names, "bone"+strconv.Itoa(i))
	}
	skel := motion.NewSkeleton(names...)
	m := motion.NewMotion(numFrames, skel)
	for f := range numFrames {
		p := motion.NewPosture(skel.NumBones())
		p.Root = root(f)
		for b := range p.Bones {
			p.Bones[b] = bone(f, b)
		}
		if err := m.SetPosture(f, p); err != nil {
			panic(err)
		}
	}
	return m
}
