package engine

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/internal/mathutil"
)

// space is the geometry control points live in. Its single operation blends
// two points at parameter t; t outside [0, 1] extrapolates.
//
// Every Bezier construction in this package is expressed through blend only,
// so the vector and quaternion variants share one implementation: lerp for
// vectors, Slerp for unit quaternions.
type space[T any] interface {
	blend(t float64, a, b T) T
}

// vectorSpace blends r3 vectors linearly.
type vectorSpace struct{}

func (vectorSpace) blend(t float64, a, b r3.Vec) r3.Vec {
	return mathutil.LerpVec(t, a, b)
}

// rotationSpace blends unit quaternions along great circles.
type rotationSpace struct{}

func (rotationSpace) blend(t float64, a, b quat.Number) quat.Number {
	return mathutil.Slerp(t, a, b)
}

// keys holds the keyframe values a segment curve is built from.
// prev and next are only meaningful when the matching flag is set.
type keys[T any] struct {
	prev, start, end, next T
	hasPrev, hasNext       bool
}

// deCasteljau evaluates the cubic Bezier curve p0..p3 at t by three levels of
// pairwise blending.
func deCasteljau[T any](s space[T], t float64, p0, p1, p2, p3 T) T {
	q0 := s.blend(t, p0, p1)
	q1 := s.blend(t, p1, p2)
	q2 := s.blend(t, p2, p3)

	r0 := s.blend(t, q0, q1)
	r1 := s.blend(t, q1, q2)

	return s.blend(t, r0, r1)
}

// controlPoints derives the two inner control points of the segment
// start→end from the neighbouring keyframes.
//
// a leaves start toward the average of end and prev mirrored across start.
// b arrives at end from the opposite side of the average of next and start
// mirrored across end. At the first segment the missing prev estimate is
// replaced by next mirrored across end; at the last segment the missing
// next estimate is replaced by prev mirrored across start. A lone segment
// gets the thirds of the chord, which makes the curve a straight blend.
func controlPoints[T any](s space[T], k keys[T]) (a, b T) {
	switch {
	case k.hasPrev:
		mirrored := s.blend(mirrorT, k.prev, k.start)
		a = s.blend(tangentPull, k.start, s.blend(averageT, mirrored, k.end))
	case k.hasNext:
		a = s.blend(tangentPull, k.start, s.blend(mirrorT, k.next, k.end))
	default:
		a = s.blend(tangentPull, k.start, k.end)
	}

	switch {
	case k.hasNext:
		mirrored := s.blend(mirrorT, k.start, k.end)
		b = s.blend(-tangentPull, k.end, s.blend(averageT, mirrored, k.next))
	case k.hasPrev:
		b = s.blend(tangentPull, k.end, s.blend(mirrorT, k.prev, k.start))
	default:
		b = s.blend(1-tangentPull, k.start, k.end)
	}

	return a, b
}
