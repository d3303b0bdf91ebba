// Package interpolator reconstructs densely sampled skeletal motion from
// sparse keyframes.
//
// A motion is a sequence of postures (root position plus one XYZ Euler
// triple per bone). Given a skip count N, every (N+1)-th frame is kept as a
// keyframe and the N frames in between are synthesized. The output has the
// same number of frames as the input; keyframes and trailing frames that do
// not form a complete segment are copied unchanged.
//
// # Quick Start
//
//	ip, err := interpolator.New(&interpolator.Config{
//	    Type:   interpolator.Bezier,
//	    Angles: interpolator.Quaternion,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dense, err := ip.Interpolate(sparse, 20)
//
// For a single call use [InterpolateMotion].
//
// # Methods
//
// Four combinations of [InterpolationType] and [AngleRepresentation] are
// supported:
//
//   - Linear + Euler: component-wise blending of Euler angles.
//   - Bezier + Euler: cubic Bezier on Euler angles, tangents derived from the
//     neighbouring keyframes.
//   - Linear + Quaternion: Slerp between unit quaternions.
//   - Bezier + Quaternion: spherical Bezier evaluated by De Casteljau's
//     construction with Slerp in place of linear blends.
//
// Root positions are always blended as vectors, linear or Bezier according
// to the type.
//
// # Concurrency
//
// Segments write disjoint frame ranges, so [Config.EnableParallel] spreads
// them across goroutines without changing the result. An [Interpolator]
// keeps no state between calls and may be shared.
//
// # Observability
//
// The package does not log. Supply an [Observer] to receive per-segment
// timings and a [Stats] summary per run; internal/logging provides a zap
// backed implementation used by the command line tools.
package interpolator
