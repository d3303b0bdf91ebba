package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Identity is the quaternion of the null rotation.
var Identity = quat.Number{Real: 1}

// Normalize scales q to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// Dot returns the four-component dot product of a and b.
func Dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Neg returns -q, which represents the same rotation as q.
func Neg(q quat.Number) quat.Number {
	return quat.Scale(-1, q)
}

// Slerp interpolates along the shorter great-circle arc from qStart to qEnd.
//
// Both inputs are normalized. When they are nearly parallel the spherical
// formula loses precision (sin θ → 0), so the result falls back to a
// normalized component-wise blend. Values of t outside [0, 1] extrapolate
// along the same arc: Slerp(2, p, q) mirrors p across q.
func Slerp(t float64, qStart, qEnd quat.Number) quat.Number {
	qStart = Normalize(qStart)
	qEnd = Normalize(qEnd)

	dot := Dot(qStart, qEnd)
	if dot < 0 {
		qEnd = Neg(qEnd)
		dot = -dot
	}

	if dot > SlerpLinearThreshold {
		return Normalize(quat.Add(quat.Scale(1-t, qStart), quat.Scale(t, qEnd)))
	}

	theta0 := math.Acos(math.Max(-1, math.Min(dot, 1)))
	theta := theta0 * t

	// Orthonormal basis {qStart, mid} of the plane holding both quaternions.
	mid := Normalize(quat.Sub(qEnd, quat.Scale(dot, qStart)))

	sin, cos := math.Sincos(theta)
	return Normalize(quat.Add(quat.Scale(cos, qStart), quat.Scale(sin, mid)))
}
