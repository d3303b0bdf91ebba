// Command analyze-motion measures how well each interpolation method
// reconstructs a densely sampled motion from its keyframes.
//
// Usage:
//
//	analyze-motion -skeleton s.asf -input ref.amc -n 10,20,40
//	analyze-motion -skeleton s.asf -input ref.amc -candidate out.amc
//
// For every N the reference is interpolated with all four type and angle
// combinations; the error against the reference and the jitter of the
// result are printed as a table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tphakala/simd/cpu"
	"go.uber.org/zap"

	interpolator "github.com/tphakala/go-mocap-interpolator"
	"github.com/tphakala/go-mocap-interpolator/internal/analysis"
	"github.com/tphakala/go-mocap-interpolator/internal/logging"
	"github.com/tphakala/go-mocap-interpolator/internal/mocap"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

const (
	defaultSkips = "4,10,20"
	exitFailure  = 1
	tabPadding   = 2
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "analyze-motion:", err)
		os.Exit(exitFailure)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze-motion", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		skeleton  = fs.String("skeleton", "", "ASF skeleton file")
		input     = fs.String("input", "", "Reference AMC motion file")
		candidate = fs.String("candidate", "", "Compare this AMC file against the reference instead of interpolating")
		skips     = fs.String("n", defaultSkips, "Comma separated skip counts to evaluate")
		scale     = fs.Float64("scale", mocap.DefaultScale, "Root translation scale")
		parallel  = fs.Bool("parallel", false, "Process keyframe segments in parallel")
		logLevel  = fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *skeleton == "" || *input == "" {
		fs.Usage()
		return errors.New("skeleton and input are required")
	}

	log, err := logging.New(*logLevel, logging.EncodingConsole)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	skel, err := readSkeleton(*skeleton)
	if err != nil {
		return err
	}
	ref, err := readMotion(*input, skel, *scale)
	if err != nil {
		return err
	}
	log.Info("reference loaded",
		zap.Int("frames", ref.NumFrames()),
		zap.Int("bones", ref.NumBones()),
		zap.String("simd", cpu.Info()))

	fmt.Fprintf(stdout, "Reference: %s (%d frames, %d bones)\n", *input, ref.NumFrames(), ref.NumBones())
	fmt.Fprintf(stdout, "CPU: %s\n\n", cpu.Info())

	tw := tabwriter.NewWriter(stdout, 0, 0, tabPadding, ' ', tabwriter.AlignRight)
	defer tw.Flush()
	fmt.Fprintln(tw, "method\tN\tmean rms\tworst\tworst max\troot rms\tjitter\ttime\t")

	if *candidate != "" {
		cand, err := readMotion(*candidate, skel, *scale)
		if err != nil {
			return err
		}
		return writeRow(tw, "candidate", "-", ref, cand, 0)
	}

	ns, err := parseSkips(*skips)
	if err != nil {
		return err
	}
	for _, n := range ns {
		for _, cfg := range interpolator.Combinations() {
			cfg.EnableParallel = *parallel
			obs := logging.NewObserver(log)
			cfg.Observer = obs

			ip, err := interpolator.New(&cfg)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := ip.Interpolate(ref, n)
			if err != nil {
				return err
			}
			method := interpolator.GetInfo(ip).Method
			if err := writeRow(tw, method, strconv.Itoa(n), ref, out, time.Since(start)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRow(w io.Writer, method, n string, ref, out *motion.Motion, elapsed time.Duration) error {
	rep, err := analysis.Compare(ref, out)
	if err != nil {
		return err
	}
	jitter, err := analysis.MotionJitter(out, analysis.DefaultJitterCutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\t%.4f\t%.4f\t%.5f\t%v\t\n",
		method, n, rep.MeanRMS, rep.Worst.Name, rep.Worst.Max, rep.Root.RMS, jitter, elapsed.Round(time.Microsecond))
	return nil
}

func parseSkips(s string) ([]int, error) {
	var ns []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid N value %q", part)
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil, errors.New("no N values given")
	}
	return ns, nil
}

func readSkeleton(path string) (*motion.Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skeleton file: %w", err)
	}
	defer f.Close()
	return mocap.ReadSkeleton(f)
}

func readMotion(path string, skel *motion.Skeleton, scale float64) (*motion.Motion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open motion file: %w", err)
	}
	defer f.Close()
	return mocap.ReadMotion(f, skel, scale)
}
