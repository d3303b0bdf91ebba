package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tphakala/go-mocap-interpolator/internal/analysis"
	"github.com/tphakala/go-mocap-interpolator/internal/curve"
	"github.com/tphakala/go-mocap-interpolator/internal/mocap"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

// loadMotion reads an ASF skeleton and an AMC motion bound to it.
func loadMotion(skeletonPath, motionPath string, scale float64) (*motion.Motion, error) {
	sf, err := os.Open(skeletonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open skeleton file: %w", err)
	}
	defer sf.Close()

	skel, err := mocap.ReadSkeleton(sf)
	if err != nil {
		return nil, fmt.Errorf("failed to load skeleton from %s: %w", skeletonPath, err)
	}

	mf, err := os.Open(motionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open motion file: %w", err)
	}
	defer mf.Close()

	m, err := mocap.ReadMotion(mf, skel, scale)
	if err != nil {
		return nil, fmt.Errorf("failed to load motion from %s: %w", motionPath, err)
	}
	return m, nil
}

// writeMotion writes m as an AMC file, replacing any existing file.
func writeMotion(path string, m *motion.Motion, scale float64) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := mocap.WriteMotion(f, m, scale); err != nil {
		return fmt.Errorf("failed to write motion to %s: %w", path, err)
	}
	return nil
}

// exportCurves writes the channels of the given bones as WAV when the
// path ends in .wav and as CSV otherwise.
func exportCurves(path string, m *motion.Motion, bones []string, fps int) (err error) {
	chans, err := curve.Select(m.Skeleton(), bones)
	if err != nil {
		return err
	}
	set := curve.Extract(m, chans)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("failed to create curve file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close curve file: %w", cerr)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), wavExtension) {
		return curve.WriteWAV(f, set, fps)
	}
	return curve.WriteCSV(f, set, fps)
}

// reportComparison logs the interpolation error against the input and the
// jitter of both motions.
func reportComparison(log *zap.Logger, reference, candidate *motion.Motion) error {
	rep, err := analysis.Compare(reference, candidate)
	if err != nil {
		return err
	}
	refJitter, err := analysis.MotionJitter(reference, analysis.DefaultJitterCutoff)
	if err != nil {
		return err
	}
	outJitter, err := analysis.MotionJitter(candidate, analysis.DefaultJitterCutoff)
	if err != nil {
		return err
	}

	log.Info("comparison",
		zap.Int("frames", rep.Frames),
		zap.Float64("mean_rms_deg", rep.MeanRMS),
		zap.String("worst_channel", rep.Worst.Name),
		zap.Float64("worst_max_deg", rep.Worst.Max),
		zap.Float64("root_rms", rep.Root.RMS),
		zap.Float64("root_max", rep.Root.Max),
		zap.Float64("jitter_input", refJitter),
		zap.Float64("jitter_output", outJitter),
	)
	return nil
}

func fingerprint(m *motion.Motion) string {
	return strconv.FormatUint(m.Fingerprint(), 16)
}
