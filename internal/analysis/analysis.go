// Package analysis measures how far an interpolated motion strays from a
// reference capture and how much high-frequency content it carries.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/internal/curve"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

// ErrMismatch indicates motions that cannot be compared frame by frame.
var ErrMismatch = errors.New("motions differ in shape")

// ChannelError holds the error statistics of one curve.
type ChannelError struct {
	Name string
	RMS  float64
	Max  float64
}

// Report summarizes a comparison. Rotation errors are in degrees, taken
// along the shorter way around the circle; root errors are distances.
type Report struct {
	Frames   int
	Root     ChannelError // Euclidean root position error
	Channels []ChannelError
	MeanRMS  float64 // mean of the rotation channel RMS values
	Worst    ChannelError
}

// Compare measures candidate against reference. Both motions must have the
// same frame count and bone count; the reference skeleton names channels.
func Compare(reference, candidate *motion.Motion) (Report, error) {
	if reference.NumFrames() != candidate.NumFrames() {
		return Report{}, fmt.Errorf("%w: %d vs %d frames", ErrMismatch, reference.NumFrames(), candidate.NumFrames())
	}
	if reference.NumBones() != candidate.NumBones() {
		return Report{}, fmt.Errorf("%w: %d vs %d bones", ErrMismatch, reference.NumBones(), candidate.NumBones())
	}

	chans, err := rotationChannels(reference)
	if err != nil {
		return Report{}, err
	}
	want := curve.Extract(reference, chans)
	got := curve.Extract(candidate, chans)

	n := reference.NumFrames()
	rep := Report{Frames: n, Channels: make([]ChannelError, len(chans))}
	if n == 0 {
		return rep, nil
	}

	diff := make([]float64, n)
	rms := make([]float64, len(chans))
	for c, ch := range chans {
		for f := range n {
			diff[f] = wrapDegrees(got.Samples[c][f] - want.Samples[c][f])
		}
		ce := stats(ch.Name, diff)
		rep.Channels[c] = ce
		rms[c] = ce.RMS
		if ce.Max > rep.Worst.Max {
			rep.Worst = ce
		}
	}
	if len(rms) > 0 {
		rep.MeanRMS = f64.Sum(rms) / float64(len(rms))
	}

	for f := range n {
		diff[f] = r3.Norm(r3.Sub(candidate.Posture(f).Root, reference.Posture(f).Root))
	}
	rep.Root = stats(motion.RootName+".position", diff)
	return rep, nil
}

// rotationChannels lists the rx/ry/rz curves of every bone.
func rotationChannels(m *motion.Motion) ([]curve.Channel, error) {
	if m.Skeleton() != nil {
		all, err := curve.Select(m.Skeleton(), nil)
		if err != nil {
			return nil, err
		}
		chans := all[:0]
		for _, ch := range all {
			if !ch.Root {
				chans = append(chans, ch)
			}
		}
		return chans, nil
	}

	chans := make([]curve.Channel, 0, 3*m.NumBones())
	for b := range m.NumBones() {
		for axis, name := range []string{"rx", "ry", "rz"} {
			chans = append(chans, curve.Channel{Name: fmt.Sprintf("bone%d.%s", b, name), Bone: b, Axis: axis})
		}
	}
	return chans, nil
}

func stats(name string, diff []float64) ChannelError {
	return ChannelError{
		Name: name,
		RMS:  math.Sqrt(f64.DotProductUnsafe(diff, diff) / float64(len(diff))),
		Max:  floats.Norm(diff, math.Inf(1)),
	}
}

// wrapDegrees maps an angle difference to (-180, 180].
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}
