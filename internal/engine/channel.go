package engine

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/internal/mathutil"
)

// curve evaluates one channel (root position or one bone's Euler angles)
// inside a keyframe segment, for t in (0, 1).
type curve interface {
	at(t float64) r3.Vec
}

// channelMode builds the curve of one channel for one segment. Curves are
// built once per segment and evaluated for each in-between frame.
type channelMode interface {
	build(k keys[r3.Vec]) curve
}

// linearVector blends the stored values directly. Used for root positions
// and for Euler angles in linear mode.
type linearVector struct{}

func (linearVector) build(k keys[r3.Vec]) curve {
	return lerpCurve{from: k.start, to: k.end}
}

type lerpCurve struct {
	from, to r3.Vec
}

func (c lerpCurve) at(t float64) r3.Vec {
	return mathutil.LerpVec(t, c.from, c.to)
}

// bezierVector fits a cubic Bezier through the stored values.
type bezierVector struct{}

func (bezierVector) build(k keys[r3.Vec]) curve {
	s := vectorSpace{}
	a, b := controlPoints[r3.Vec](s, k)
	return bezierCurve[r3.Vec]{
		space: s,
		p0:    k.start,
		p1:    a,
		p2:    b,
		p3:    k.end,
		out:   func(v r3.Vec) r3.Vec { return v },
	}
}

// slerpRotation converts Euler angles to quaternions and blends them along
// the shorter arc.
type slerpRotation struct{}

func (slerpRotation) build(k keys[r3.Vec]) curve {
	return slerpCurve{
		from: mathutil.EulerToQuat(k.start),
		to:   mathutil.EulerToQuat(k.end),
	}
}

type slerpCurve struct {
	from, to quat.Number
}

func (c slerpCurve) at(t float64) r3.Vec {
	return mathutil.QuatToEuler(mathutil.Slerp(t, c.from, c.to))
}

// bezierRotation fits a spherical Bezier through the keyframe orientations.
// Control points and evaluation both use Slerp, so every intermediate stays
// a unit quaternion.
type bezierRotation struct{}

func (bezierRotation) build(k keys[r3.Vec]) curve {
	q := keys[quat.Number]{
		start:   mathutil.EulerToQuat(k.start),
		end:     mathutil.EulerToQuat(k.end),
		hasPrev: k.hasPrev,
		hasNext: k.hasNext,
	}
	if k.hasPrev {
		q.prev = mathutil.EulerToQuat(k.prev)
	}
	if k.hasNext {
		q.next = mathutil.EulerToQuat(k.next)
	}

	s := rotationSpace{}
	a, b := controlPoints[quat.Number](s, q)
	return bezierCurve[quat.Number]{
		space: s,
		p0:    q.start,
		p1:    a,
		p2:    b,
		p3:    q.end,
		out:   mathutil.QuatToEuler,
	}
}

type bezierCurve[T any] struct {
	space          space[T]
	p0, p1, p2, p3 T
	out            func(T) r3.Vec
}

func (c bezierCurve[T]) at(t float64) r3.Vec {
	return c.out(deCasteljau(c.space, t, c.p0, c.p1, c.p2, c.p3))
}
