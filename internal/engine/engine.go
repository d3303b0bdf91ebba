// Package engine implements the keyframe segment walker and the curve
// strategies used to fill in skipped postures.
package engine

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/motion"
)

// Method selects the curve family used between keyframes.
type Method int

const (
	// MethodLinear blends keyframes along straight lines (or great arcs).
	MethodLinear Method = iota
	// MethodBezier fits a cubic Bezier through neighbouring keyframes.
	MethodBezier
)

func (m Method) String() string {
	switch m {
	case MethodLinear:
		return "linear"
	case MethodBezier:
		return "bezier"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Rotation selects the representation bone rotations are blended in.
type Rotation int

const (
	// RotationEuler blends the stored Euler angles directly.
	RotationEuler Rotation = iota
	// RotationQuaternion converts to unit quaternions and blends on the sphere.
	RotationQuaternion
)

func (r Rotation) String() string {
	switch r {
	case RotationEuler:
		return "euler"
	case RotationQuaternion:
		return "quaternion"
	default:
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
}

// Config configures an Engine.
type Config struct {
	Method   Method
	Rotation Rotation

	// Parallel processes segments on several goroutines. Output is identical
	// to the sequential walk since segments write disjoint frame ranges.
	Parallel bool

	// Workers caps the number of goroutines. 0 means runtime.NumCPU().
	Workers int

	// Observer receives per-segment and per-run reports. Nil disables reporting.
	Observer Observer
}

// Engine fills the skipped postures of a keyframed motion.
// An Engine is stateless between runs and safe for concurrent use.
type Engine struct {
	method   Method
	rotation Rotation
	root     channelMode
	bones    channelMode
	parallel bool
	workers  int
	observer Observer
}

// New creates an engine for the given configuration. It panics on a
// method/rotation pair it has no strategy for; callers validate first.
func New(cfg Config) *Engine {
	e := &Engine{
		method:   cfg.Method,
		rotation: cfg.Rotation,
		parallel: cfg.Parallel,
		workers:  cfg.Workers,
		observer: cfg.Observer,
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	if e.observer == nil {
		e.observer = NopObserver{}
	}

	switch {
	case cfg.Method == MethodLinear && cfg.Rotation == RotationEuler:
		e.root, e.bones = linearVector{}, linearVector{}
	case cfg.Method == MethodBezier && cfg.Rotation == RotationEuler:
		e.root, e.bones = bezierVector{}, bezierVector{}
	case cfg.Method == MethodLinear && cfg.Rotation == RotationQuaternion:
		e.root, e.bones = linearVector{}, slerpRotation{}
	case cfg.Method == MethodBezier && cfg.Rotation == RotationQuaternion:
		e.root, e.bones = bezierVector{}, bezierRotation{}
	default:
		panic(fmt.Sprintf("engine: no strategy for %s/%s", cfg.Method, cfg.Rotation))
	}
	return e
}

// Name returns a short label such as "bezier-quaternion".
func (e *Engine) Name() string {
	return e.method.String() + "-" + e.rotation.String()
}

// Segment is one keyframe pair plus the neighbouring keyframes that shape
// Bezier tangents. Frames Start+1 .. End-1 are synthesized.
type Segment struct {
	Start, End int
	Prev, Next int
	HasPrev    bool
	HasNext    bool
}

// Segments lists the keyframe segments of a motion with numFrames frames
// when n postures are skipped between keyframes. Keyframes are 0, n+1,
// 2(n+1), ... and a segment exists only if its end keyframe is present.
func Segments(numFrames, n int) []Segment {
	if n < 0 {
		return nil
	}
	step := n + 1
	var segs []Segment
	for start := 0; start+step < numFrames; start += step {
		end := start + step
		segs = append(segs, Segment{
			Start:   start,
			End:     end,
			Prev:    start - step,
			Next:    end + step,
			HasPrev: start-step >= 0,
			HasNext: end+step < numFrames,
		})
	}
	return segs
}

// Interpolate returns a new motion with the same frame count and skeleton
// as in. Keyframes and frames after the last complete segment are copied
// verbatim; the n frames inside every segment are synthesized.
func (e *Engine) Interpolate(in *motion.Motion, n int) (*motion.Motion, error) {
	if n < 0 {
		return nil, fmt.Errorf("engine: negative skip count %d", n)
	}

	begin := time.Now()
	numFrames := in.NumFrames()
	out := motion.NewMotion(numFrames, in.Skeleton())
	segs := Segments(numFrames, n)

	parallel := e.parallel && len(segs) >= minSegmentsPerWorker
	var err error
	if parallel {
		err = e.walkParallel(in, out, segs, n)
	} else {
		err = e.walk(in, out, segs, n)
	}
	if err != nil {
		return nil, err
	}

	tail := 0
	if len(segs) > 0 {
		tail = segs[len(segs)-1].End
	}
	for i := tail; i < numFrames; i++ {
		if err := out.SetPosture(i, in.Posture(i)); err != nil {
			return nil, err
		}
	}

	interpolated := len(segs) * n
	e.observer.InterpolationDone(Stats{
		Method:       e.Name(),
		Frames:       numFrames,
		Segments:     len(segs),
		Interpolated: interpolated,
		Copied:       numFrames - interpolated,
		Skip:         n,
		Parallel:     parallel,
		Elapsed:      time.Since(begin),
	})
	return out, nil
}

func (e *Engine) walk(in, out *motion.Motion, segs []Segment, n int) error {
	for _, seg := range segs {
		if err := e.segment(in, out, seg, n); err != nil {
			return err
		}
	}
	return nil
}

// walkParallel splits the segment list into contiguous batches of at least
// minSegmentsPerWorker segments and runs them under a bounded errgroup.
func (e *Engine) walkParallel(in, out *motion.Motion, segs []Segment, n int) error {
	batch := (len(segs) + e.workers - 1) / e.workers
	batch = max(batch, minSegmentsPerWorker)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for lo := 0; lo < len(segs); lo += batch {
		hi := min(lo+batch, len(segs))
		g.Go(func() error {
			return e.walk(in, out, segs[lo:hi], n)
		})
	}
	return g.Wait()
}

// segment copies the start keyframe and synthesizes the n frames that
// follow it.
func (e *Engine) segment(in, out *motion.Motion, seg Segment, n int) error {
	begin := time.Now()

	start := in.Posture(seg.Start)
	end := in.Posture(seg.End)
	if len(start.Bones) != len(end.Bones) {
		return fmt.Errorf("engine: keyframes %d and %d differ in bone count (%d vs %d)",
			seg.Start, seg.End, len(start.Bones), len(end.Bones))
	}
	var prev, next motion.Posture
	if seg.HasPrev {
		prev = in.Posture(seg.Prev)
		if len(prev.Bones) != len(start.Bones) {
			return fmt.Errorf("engine: keyframes %d and %d differ in bone count (%d vs %d)",
				seg.Prev, seg.Start, len(prev.Bones), len(start.Bones))
		}
	}
	if seg.HasNext {
		next = in.Posture(seg.Next)
		if len(next.Bones) != len(start.Bones) {
			return fmt.Errorf("engine: keyframes %d and %d differ in bone count (%d vs %d)",
				seg.Start, seg.Next, len(start.Bones), len(next.Bones))
		}
	}

	if err := out.SetPosture(seg.Start, start); err != nil {
		return err
	}

	root := e.root.build(keysFor(seg, prev.Root, start.Root, end.Root, next.Root))
	bones := make([]curve, len(start.Bones))
	for b := range bones {
		bones[b] = e.bones.build(keysFor(seg,
			boneAt(prev, b), start.Bones[b], end.Bones[b], boneAt(next, b)))
	}

	for frame := 1; frame <= n; frame++ {
		t := float64(frame) / float64(n+1)
		p := motion.Posture{Root: root.at(t), Bones: make([]r3.Vec, len(bones))}
		for b, c := range bones {
			p.Bones[b] = c.at(t)
		}
		if err := out.SetPosture(seg.Start+frame, p); err != nil {
			return err
		}
	}

	e.observer.SegmentInterpolated(seg, time.Since(begin))
	return nil
}

func keysFor(seg Segment, prev, start, end, next r3.Vec) keys[r3.Vec] {
	return keys[r3.Vec]{
		prev: prev, start: start, end: end, next: next,
		hasPrev: seg.HasPrev, hasNext: seg.HasNext,
	}
}

// boneAt returns bone b of p, or the zero rotation for an absent neighbour
// keyframe.
func boneAt(p motion.Posture, b int) r3.Vec {
	if b < len(p.Bones) {
		return p.Bones[b]
	}
	return r3.Vec{}
}
