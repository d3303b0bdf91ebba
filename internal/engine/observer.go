package engine

import "time"

// Stats summarizes one Interpolate run.
type Stats struct {
	Method       string
	Frames       int
	Segments     int
	Interpolated int // synthesized frames
	Copied       int // keyframes and tail frames copied verbatim
	Skip         int
	Parallel     bool
	Elapsed      time.Duration
}

// Observer receives progress reports from an Engine. With Parallel enabled
// SegmentInterpolated is called from several goroutines.
type Observer interface {
	SegmentInterpolated(seg Segment, elapsed time.Duration)
	InterpolationDone(stats Stats)
}

// NopObserver discards all reports.
type NopObserver struct{}

func (NopObserver) SegmentInterpolated(Segment, time.Duration) {}
func (NopObserver) InterpolationDone(Stats)                    {}
