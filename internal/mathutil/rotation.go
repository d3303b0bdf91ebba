// Package mathutil provides rotation conversions and quaternion interpolation
// for skeletal motion data.
//
// Euler angles are expressed in degrees and follow the ASF/AMC convention:
// rotations about X, then Y, then Z, composed as R = Rz·Ry·Rx. Quaternions use
// gonum's [quat.Number] with Real as the scalar part and Imag, Jmag, Kmag as
// the x, y, z parts.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mat3 is a row-major 3×3 rotation matrix: element (row i, col j) is at i*3+j.
type Mat3 [9]float64

// EulerToMatrix builds the rotation matrix for XYZ Euler angles in degrees.
func EulerToMatrix(angles r3.Vec) Mat3 {
	sx, cx := math.Sincos(angles.X * degToRad)
	sy, cy := math.Sincos(angles.Y * degToRad)
	sz, cz := math.Sincos(angles.Z * degToRad)

	return Mat3{
		cy * cz, sx*sy*cz - cx*sz, sx*sz + cx*sy*cz,
		cy * sz, cx*cz + sx*sy*sz, cx*sy*sz - sx*cz,
		-sy, sx * cy, cx * cy,
	}
}

// MatrixToEuler recovers XYZ Euler angles in degrees from a rotation matrix.
//
// When the pitch is at ±90° (gimbal lock) roll and yaw are not separable:
// infinitely many pairs produce the same matrix. In that case the Z angle is
// fixed to 0 and the whole remaining rotation is attributed to X.
func MatrixToEuler(r Mat3) r3.Vec {
	cy := math.Hypot(r[0], r[3])

	var x, y, z float64
	if cy > gimbalLockThreshold {
		x = math.Atan2(r[7], r[8])
		y = math.Atan2(-r[6], cy)
		z = math.Atan2(r[3], r[0])
	} else {
		x = math.Atan2(-r[5], r[4])
		y = math.Atan2(-r[6], cy)
		z = 0
	}

	return r3.Vec{X: x * radToDeg, Y: y * radToDeg, Z: z * radToDeg}
}

// QuatFromMatrix extracts a unit quaternion from a rotation matrix.
// The branch is chosen on the trace and the largest diagonal element so the
// square root argument never gets close to zero.
func QuatFromMatrix(r Mat3) quat.Number {
	var q quat.Number

	trace := r[0] + r[4] + r[8]
	switch {
	case trace > 0:
		s := quatTwo * math.Sqrt(trace+quatTraceOffset) // 4w
		q = quat.Number{
			Real: quatQuarterScale * s,
			Imag: (r[7] - r[5]) / s,
			Jmag: (r[2] - r[6]) / s,
			Kmag: (r[3] - r[1]) / s,
		}
	case r[0] > r[4] && r[0] > r[8]:
		s := quatTwo * math.Sqrt(quatTraceOffset+r[0]-r[4]-r[8]) // 4x
		q = quat.Number{
			Real: (r[7] - r[5]) / s,
			Imag: quatQuarterScale * s,
			Jmag: (r[1] + r[3]) / s,
			Kmag: (r[2] + r[6]) / s,
		}
	case r[4] > r[8]:
		s := quatTwo * math.Sqrt(quatTraceOffset+r[4]-r[0]-r[8]) // 4y
		q = quat.Number{
			Real: (r[2] - r[6]) / s,
			Imag: (r[1] + r[3]) / s,
			Jmag: quatQuarterScale * s,
			Kmag: (r[5] + r[7]) / s,
		}
	default:
		s := quatTwo * math.Sqrt(quatTraceOffset+r[8]-r[0]-r[4]) // 4z
		q = quat.Number{
			Real: (r[3] - r[1]) / s,
			Imag: (r[2] + r[6]) / s,
			Jmag: (r[5] + r[7]) / s,
			Kmag: quatQuarterScale * s,
		}
	}

	return Normalize(q)
}

// QuatToMatrix converts a quaternion to a rotation matrix.
// The quaternion is normalized first.
func QuatToMatrix(q quat.Number) Mat3 {
	q = Normalize(q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// EulerToQuat converts XYZ Euler angles in degrees to a unit quaternion.
func EulerToQuat(angles r3.Vec) quat.Number {
	return QuatFromMatrix(EulerToMatrix(angles))
}

// QuatToEuler converts a quaternion to XYZ Euler angles in degrees.
func QuatToEuler(q quat.Number) r3.Vec {
	return MatrixToEuler(QuatToMatrix(q))
}

// Component returns the X, Y or Z component of v for axis 0, 1 or 2.
func Component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// LerpVec blends a and b as a·(1-t) + b·t. t outside [0, 1] extrapolates.
func LerpVec(t float64, a, b r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}
