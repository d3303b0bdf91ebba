package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/internal/mathutil"
	"github.com/tphakala/go-mocap-interpolator/internal/testutil"
)

func zRot(deg float64) quat.Number {
	return mathutil.EulerToQuat(r3.Vec{Z: deg})
}

func TestDeCasteljau_Endpoints(t *testing.T) {
	p0 := r3.Vec{X: 0, Y: 1, Z: 2}
	p1 := r3.Vec{X: 3, Y: -1, Z: 0}
	p2 := r3.Vec{X: 4, Y: 5, Z: 1}
	p3 := r3.Vec{X: 7, Y: 2, Z: -2}

	testutil.AssertVecInDelta(t, p0, deCasteljau[r3.Vec](vectorSpace{}, 0, p0, p1, p2, p3), 0)
	testutil.AssertVecInDelta(t, p3, deCasteljau[r3.Vec](vectorSpace{}, 1, p0, p1, p2, p3), 0)
}

// TestDeCasteljau_Bernstein compares the recursive evaluation against the
// closed-form cubic Bernstein polynomial.
func TestDeCasteljau_Bernstein(t *testing.T) {
	p := [4]r3.Vec{{X: 0, Y: 1, Z: 2}, {X: 3, Y: -1, Z: 0}, {X: 4, Y: 5, Z: 1}, {X: 7, Y: 2, Z: -2}}

	for _, tt := range []float64{0.1, 0.25, 1.0 / 3.0, 0.5, 0.9} {
		u := 1 - tt
		want := r3.Add(
			r3.Add(r3.Scale(u*u*u, p[0]), r3.Scale(3*u*u*tt, p[1])),
			r3.Add(r3.Scale(3*u*tt*tt, p[2]), r3.Scale(tt*tt*tt, p[3])),
		)
		got := deCasteljau[r3.Vec](vectorSpace{}, tt, p[0], p[1], p[2], p[3])
		testutil.AssertVecInDelta(t, want, got, 1e-12, "t=%v", tt)
	}
}

func TestDeCasteljau_Quaternion(t *testing.T) {
	s := rotationSpace{}
	p0, p1, p2, p3 := zRot(0), zRot(20), zRot(40), zRot(60)

	testutil.AssertSameRotation(t, p0, deCasteljau[quat.Number](s, 0, p0, p1, p2, p3), 1e-12)
	testutil.AssertSameRotation(t, p3, deCasteljau[quat.Number](s, 1, p0, p1, p2, p3), 1e-12)

	// Evenly spaced control points on one great circle give uniform motion.
	for _, tt := range []float64{0.2, 0.5, 0.75} {
		got := deCasteljau[quat.Number](s, tt, p0, p1, p2, p3)
		testutil.AssertUnitQuat(t, got, testutil.QuatTolerance)
		testutil.AssertSameRotation(t, zRot(60*tt), got, 1e-9, "t=%v", tt)
	}
}

func TestControlPoints_Vector(t *testing.T) {
	prev := r3.Vec{X: 0, Y: 4, Z: -1}
	start := r3.Vec{X: 2, Y: 3, Z: 1}
	end := r3.Vec{X: 5, Y: 1, Z: 0}
	next := r3.Vec{X: 6, Y: 2, Z: 3}

	third := func(from, toward r3.Vec) r3.Vec {
		return r3.Add(from, r3.Scale(1.0/3.0, r3.Sub(toward, from)))
	}
	mirror := func(p, across r3.Vec) r3.Vec {
		return r3.Sub(r3.Scale(2, across), p)
	}
	mid := func(a, b r3.Vec) r3.Vec {
		return r3.Scale(0.5, r3.Add(a, b))
	}

	tests := []struct {
		name         string
		k            keys[r3.Vec]
		wantA, wantB r3.Vec
	}{
		{
			name:  "Interior",
			k:     keys[r3.Vec]{prev: prev, start: start, end: end, next: next, hasPrev: true, hasNext: true},
			wantA: third(start, mid(mirror(prev, start), end)),
			wantB: r3.Sub(r3.Scale(4.0/3.0, end), r3.Scale(1.0/3.0, mid(mirror(start, end), next))),
		},
		{
			name:  "First segment",
			k:     keys[r3.Vec]{start: start, end: end, next: next, hasNext: true},
			wantA: third(start, mirror(next, end)),
			wantB: r3.Sub(r3.Scale(4.0/3.0, end), r3.Scale(1.0/3.0, mid(mirror(start, end), next))),
		},
		{
			name:  "Last segment",
			k:     keys[r3.Vec]{prev: prev, start: start, end: end, hasPrev: true},
			wantA: third(start, mid(mirror(prev, start), end)),
			wantB: third(end, mirror(prev, start)),
		},
		{
			name:  "Lone segment",
			k:     keys[r3.Vec]{start: start, end: end},
			wantA: third(start, end),
			wantB: third(end, start),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := controlPoints[r3.Vec](vectorSpace{}, tt.k)
			testutil.AssertVecInDelta(t, tt.wantA, a, 1e-12)
			testutil.AssertVecInDelta(t, tt.wantB, b, 1e-12)
		})
	}
}

// TestControlPoints_EvenSpacing checks that evenly spaced collinear keys
// with both neighbours present produce a straight, uniform segment.
func TestControlPoints_EvenSpacing(t *testing.T) {
	k := keys[r3.Vec]{
		prev: r3.Vec{X: 0}, start: r3.Vec{X: 1}, end: r3.Vec{X: 2}, next: r3.Vec{X: 3},
		hasPrev: true, hasNext: true,
	}
	a, b := controlPoints[r3.Vec](vectorSpace{}, k)
	assert.InDelta(t, 4.0/3.0, a.X, 1e-12)
	assert.InDelta(t, 5.0/3.0, b.X, 1e-12)

	for _, tt := range []float64{0.25, 0.5, 0.75} {
		got := deCasteljau[r3.Vec](vectorSpace{}, tt, k.start, a, b, k.end)
		assert.InDelta(t, 1+tt, got.X, 1e-12)
	}
}

// TestControlPoints_RotationMatchesVector checks that for rotations about a
// single axis the spherical construction reduces to the scalar one on angles.
func TestControlPoints_RotationMatchesVector(t *testing.T) {
	angles := keys[r3.Vec]{
		prev: r3.Vec{X: 0}, start: r3.Vec{X: 20}, end: r3.Vec{X: 50}, next: r3.Vec{X: 90},
	}

	for _, flags := range []struct {
		name             string
		hasPrev, hasNext bool
	}{
		{"Interior", true, true},
		{"First segment", false, true},
		{"Last segment", true, false},
		{"Lone segment", false, false},
	} {
		t.Run(flags.name, func(t *testing.T) {
			kv := angles
			kv.hasPrev, kv.hasNext = flags.hasPrev, flags.hasNext
			kq := keys[quat.Number]{
				prev: zRot(kv.prev.X), start: zRot(kv.start.X), end: zRot(kv.end.X), next: zRot(kv.next.X),
				hasPrev: kv.hasPrev, hasNext: kv.hasNext,
			}

			va, vb := controlPoints[r3.Vec](vectorSpace{}, kv)
			qa, qb := controlPoints[quat.Number](rotationSpace{}, kq)

			testutil.AssertUnitQuat(t, qa, testutil.QuatTolerance)
			testutil.AssertUnitQuat(t, qb, testutil.QuatTolerance)
			testutil.AssertSameRotation(t, zRot(va.X), qa, 1e-9)
			testutil.AssertSameRotation(t, zRot(vb.X), qb, 1e-9)
		})
	}
}

func BenchmarkBezierRotationCurve(b *testing.B) {
	c := bezierRotation{}.build(keys[r3.Vec]{
		prev:    r3.Vec{X: 5, Y: 10, Z: -20},
		start:   r3.Vec{X: 15, Y: 12, Z: -10},
		end:     r3.Vec{X: 30, Y: 8, Z: 5},
		next:    r3.Vec{X: 40, Y: 2, Z: 20},
		hasPrev: true,
		hasNext: true,
	})
	for b.Loop() {
		_ = c.at(0.4)
	}
}
