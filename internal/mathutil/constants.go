package mathutil

import "math"

// Angle conversion
const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Rotation matrix extraction
const (
	// machineEpsilon is the spacing of float64 values around 1.0 (DBL_EPSILON).
	machineEpsilon = 2.220446049250313e-16

	// gimbalLockThreshold is the cos(pitch) magnitude below which Euler
	// extraction treats the matrix as singular.
	gimbalLockThreshold = 16 * machineEpsilon
)

// Quaternion extraction (Shepperd's method)
const (
	quatTraceOffset  = 1.0  // trace + 1 = 4w²
	quatQuarterScale = 0.25 // w = s/4 when s = 2√(trace+1)
	quatTwo          = 2.0  // s = 2√(...)
)

// Slerp parameters
const (
	// SlerpLinearThreshold is the dot product above which two quaternions are
	// considered near-parallel and blended linearly.
	SlerpLinearThreshold = 0.9995
)
