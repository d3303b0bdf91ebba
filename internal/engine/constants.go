package engine

// Bezier tangent synthesis parameters, expressed as blend parameters so they
// apply unchanged to lerp and Slerp.
const (
	// mirrorT reflects the first point across the second: blend(2, p, q) = 2q - p.
	mirrorT = 2.0

	// averageT takes the midpoint of two points.
	averageT = 0.5

	// tangentPull places a control point one third of the way toward the
	// tangent estimate.
	tangentPull = 1.0 / 3.0
)

// Parallel segment processing
const (
	// minSegmentsPerWorker keeps goroutine overhead below the per-segment work.
	minSegmentsPerWorker = 4
)
