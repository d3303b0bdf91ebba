package logging

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tphakala/go-mocap-interpolator/internal/engine"
)

var _ engine.Observer = (*Observer)(nil)

// Observer logs interpolation progress. Every record carries the run_id
// assigned at construction, so parallel runs can be told apart.
type Observer struct {
	log   *zap.Logger
	runID string
}

// NewObserver returns an Observer writing to log under a fresh run_id.
func NewObserver(log *zap.Logger) *Observer {
	id := uuid.New().String()
	return &Observer{
		log:   log.With(zap.String("run_id", id)),
		runID: id,
	}
}

// RunID returns the identifier attached to every record.
func (o *Observer) RunID() string {
	return o.runID
}

// Logger returns the run-scoped logger.
func (o *Observer) Logger() *zap.Logger {
	return o.log
}

// SegmentInterpolated logs one segment at debug level.
func (o *Observer) SegmentInterpolated(seg engine.Segment, elapsed time.Duration) {
	if ce := o.log.Check(zap.DebugLevel, "segment interpolated"); ce != nil {
		ce.Write(
			zap.Int("start", seg.Start),
			zap.Int("end", seg.End),
			zap.Bool("has_prev", seg.HasPrev),
			zap.Bool("has_next", seg.HasNext),
			zap.Duration("elapsed", elapsed),
		)
	}
}

// InterpolationDone logs the run summary at info level.
func (o *Observer) InterpolationDone(stats engine.Stats) {
	o.log.Info("interpolation done",
		zap.String("method", stats.Method),
		zap.Int("frames", stats.Frames),
		zap.Int("segments", stats.Segments),
		zap.Int("interpolated", stats.Interpolated),
		zap.Int("copied", stats.Copied),
		zap.Int("skip", stats.Skip),
		zap.Bool("parallel", stats.Parallel),
		zap.Duration("elapsed", stats.Elapsed),
	)
}
