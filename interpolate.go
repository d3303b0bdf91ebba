package interpolator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tphakala/go-mocap-interpolator/internal/engine"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

// InterpolationType selects the curve family used between keyframes.
type InterpolationType int

const (
	// Linear blends keyframes with straight lines (Euler) or great arcs (Quaternion).
	Linear InterpolationType = iota

	// Bezier fits a cubic Bezier spline through neighbouring keyframes.
	// Tangents are derived from the previous and next keyframes.
	Bezier
)

// String returns the long name of the type.
func (t InterpolationType) String() string {
	switch t {
	case Linear:
		return "linear"
	case Bezier:
		return "bezier"
	default:
		return fmt.Sprintf("InterpolationType(%d)", int(t))
	}
}

// AngleRepresentation selects the space bone rotations are blended in.
type AngleRepresentation int

const (
	// Euler blends the stored XYZ Euler angles component-wise.
	// Fast, but subject to gimbal lock and uneven angular speed.
	Euler AngleRepresentation = iota

	// Quaternion converts rotations to unit quaternions and blends them on
	// the 4D unit sphere with Slerp.
	Quaternion
)

// String returns the long name of the representation.
func (a AngleRepresentation) String() string {
	switch a {
	case Euler:
		return "euler"
	case Quaternion:
		return "quaternion"
	default:
		return fmt.Sprintf("AngleRepresentation(%d)", int(a))
	}
}

// ParseInterpolationType accepts "l", "linear", "b" or "bezier" in any case.
func ParseInterpolationType(s string) (InterpolationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "linear":
		return Linear, nil
	case "b", "bezier":
		return Bezier, nil
	default:
		return 0, fmt.Errorf("%w: unknown interpolation type %q", ErrInvalidConfig, s)
	}
}

// ParseAngleRepresentation accepts "e", "euler", "q" or "quaternion" in any case.
func ParseAngleRepresentation(s string) (AngleRepresentation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "euler":
		return Euler, nil
	case "q", "quat", "quaternion":
		return Quaternion, nil
	default:
		return 0, fmt.Errorf("%w: unknown angle representation %q", ErrInvalidConfig, s)
	}
}

// Observer receives progress reports from an Interpolator.
// Implementations must be safe for concurrent use when EnableParallel is set.
type Observer = engine.Observer

// Stats summarizes one interpolation run.
type Stats = engine.Stats

// Segment describes one keyframe pair and its neighbouring keyframes.
type Segment = engine.Segment

// Config holds interpolation configuration.
type Config struct {
	// Type selects linear or Bezier curves.
	Type InterpolationType

	// Angles selects the rotation representation used for blending.
	// Root positions are always blended as plain vectors.
	Angles AngleRepresentation

	// EnableParallel processes keyframe segments concurrently.
	// Results are identical to the sequential walk.
	EnableParallel bool

	// Workers bounds the number of goroutines when EnableParallel is set.
	// Set to 0 to use one per CPU.
	Workers int

	// Observer receives per-segment and per-run reports. Nil disables them.
	Observer Observer
}

var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid interpolator configuration")

	// ErrNegativeSkip indicates a negative number of skipped frames.
	ErrNegativeSkip = errors.New("skip count must not be negative")

	// ErrNilMotion indicates a nil input motion.
	ErrNilMotion = errors.New("input motion is nil")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Type != Linear && c.Type != Bezier {
		return fmt.Errorf("%w: unsupported interpolation type %s", ErrInvalidConfig, c.Type)
	}
	if c.Angles != Euler && c.Angles != Quaternion {
		return fmt.Errorf("%w: unsupported angle representation %s", ErrInvalidConfig, c.Angles)
	}
	if c.Workers < 0 || c.Workers > maxWorkers {
		return fmt.Errorf("%w: workers must be in [0, %d]", ErrInvalidConfig, maxWorkers)
	}
	return nil
}

// Interpolator fills the skipped postures of keyframed motions.
// It holds no per-run state and is safe for concurrent use.
type Interpolator struct {
	config Config
	engine *engine.Engine
}

// New creates an interpolator with the given configuration.
func New(config *Config) (*Interpolator, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Interpolator{
		config: *config,
		engine: engine.New(engine.Config{
			Method:   methodFor(config.Type),
			Rotation: rotationFor(config.Angles),
			Parallel: config.EnableParallel,
			Workers:  config.Workers,
			Observer: config.Observer,
		}),
	}, nil
}

// Interpolate treats every (n+1)-th frame of in, starting at frame 0, as a
// keyframe and returns a new motion of the same length in which the n
// frames between consecutive keyframes are synthesized. Keyframes and any
// frames after the last complete segment are copied unchanged. n = 0
// returns an exact copy. The input is never modified.
func (ip *Interpolator) Interpolate(in *motion.Motion, n int) (*motion.Motion, error) {
	if in == nil {
		return nil, ErrNilMotion
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSkip, n)
	}

	out, err := ip.engine.Interpolate(in, n)
	if err != nil {
		return nil, fmt.Errorf("interpolate %s: %w", ip.engine.Name(), err)
	}
	return out, nil
}

// Config returns a copy of the configuration the interpolator was built with.
func (ip *Interpolator) Config() Config {
	return ip.config
}

// Info describes an interpolator.
type Info struct {
	// Method is a short label such as "bezier-quaternion".
	Method string

	Type   InterpolationType
	Angles AngleRepresentation

	// Parallel reports whether segments may be processed concurrently.
	Parallel bool
}

// GetInfo returns information about an interpolator.
func GetInfo(ip *Interpolator) Info {
	return Info{
		Method:   ip.engine.Name(),
		Type:     ip.config.Type,
		Angles:   ip.config.Angles,
		Parallel: ip.config.EnableParallel,
	}
}

func methodFor(t InterpolationType) engine.Method {
	if t == Bezier {
		return engine.MethodBezier
	}
	return engine.MethodLinear
}

func rotationFor(a AngleRepresentation) engine.Rotation {
	if a == Quaternion {
		return engine.RotationQuaternion
	}
	return engine.RotationEuler
}
