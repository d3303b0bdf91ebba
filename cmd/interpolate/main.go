// Command interpolate fills in the frames skipped between keyframes of an
// AMC motion capture file.
//
// Usage:
//
//	interpolate skeleton.asf motion.amc l|b e|q N output.amc
//	interpolate -skeleton s.asf -input in.amc -output out.amc -type bezier -angles quaternion -n 20
//	interpolate -config interpolate.yaml -input in.amc -output out.amc -compare
//	interpolate ... -curves lfemur.csv -curve-bones lfemur,rfemur
//
// Every (N+1)-th input frame is kept as a keyframe; the N frames in between
// are replaced by interpolated postures. With -compare the result is
// measured against the input, which serves as ground truth.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"

	"go.uber.org/zap"

	interpolator "github.com/tphakala/go-mocap-interpolator"
	"github.com/tphakala/go-mocap-interpolator/internal/config"
	"github.com/tphakala/go-mocap-interpolator/internal/logging"
)

// errUsage marks command line mistakes; main prints usage and exits with 2.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	default:
		fmt.Fprintln(os.Stderr, "interpolate:", err)
		os.Exit(exitFailure)
	}
}

// options are the parsed command line values before config resolution.
type options struct {
	configPath string
	skeleton   string
	input      string
	output     string
	compare    bool
	cpuprofile string
	flags      config.Flags
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var (
		opts       options
		skip       = -1
		parallel   bool
		curveBones string
	)

	fs := flag.NewFlagSet("interpolate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.skeleton, "skeleton", "", "Input ASF skeleton file")
	fs.StringVar(&opts.input, "input", "", "Input AMC motion file")
	fs.StringVar(&opts.output, "output", "", "Output AMC motion file")
	fs.StringVar(&opts.flags.Type, "type", "", "Interpolation type: l|linear, b|bezier")
	fs.StringVar(&opts.flags.Angles, "angles", "", "Angle representation: e|euler, q|quaternion")
	fs.IntVar(&skip, "n", -1, "Number of skipped frames between keyframes")
	fs.BoolVar(&parallel, "parallel", false, "Process keyframe segments in parallel")
	fs.IntVar(&opts.flags.Workers, "workers", 0, "Parallel workers (0 = one per CPU)")
	fs.Float64Var(&opts.flags.Scale, "scale", 0, "Root translation scale (default 0.06)")
	fs.StringVar(&opts.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.flags.LogEncoding, "log-encoding", "", "Log encoding: console, json")
	fs.StringVar(&opts.flags.CurvesPath, "curves", "", "Export channel curves of the output (.csv or .wav)")
	fs.StringVar(&curveBones, "curve-bones", "", "Comma separated bones to export (default all)")
	fs.IntVar(&opts.flags.FPS, "fps", 0, "Frame rate used for curve export (default 120)")
	fs.BoolVar(&opts.compare, "compare", false, "Report error and jitter against the input motion")
	fs.StringVar(&opts.cpuprofile, "cpuprofile", "", "Write CPU profile to file")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  interpolate <skeleton.asf> <motion.amc> <l|b> <e|q> <N> <output.amc>\n")
		fmt.Fprintf(stderr, "  interpolate [options] -skeleton s.asf -input in.amc -output out.amc -n N\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			opts.flags.Skip = &skip
		case "parallel":
			opts.flags.Parallel = &parallel
		}
	})
	if curveBones != "" {
		opts.flags.CurveBones = splitList(curveBones)
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case positionalArgs:
		opts.skeleton = rest[argSkeleton]
		opts.input = rest[argInput]
		opts.flags.Type = rest[argType]
		opts.flags.Angles = rest[argAngles]
		opts.output = rest[argOutput]
		n, err := strconv.Atoi(rest[argSkip])
		if err != nil {
			return opts, fmt.Errorf("%w: invalid N %q", errUsage, rest[argSkip])
		}
		opts.flags.Skip = &n
	default:
		fs.Usage()
		return opts, fmt.Errorf("%w: expected %d positional arguments, got %d", errUsage, positionalArgs, len(rest))
	}

	if opts.skeleton == "" || opts.input == "" || opts.output == "" {
		fs.Usage()
		return opts, fmt.Errorf("%w: skeleton, input and output are required", errUsage)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	var cfg config.Config
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(opts.flags)

	ic, err := cfg.Interpolator()
	switch {
	case errors.Is(err, config.ErrMissingSkip):
		return fmt.Errorf("%w: N is required (-n, positional N or skip in the config file)", errUsage)
	case errors.Is(err, interpolator.ErrNegativeSkip):
		return fmt.Errorf("%w: invalid N value (%d)", errUsage, *cfg.Skip)
	case err != nil:
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	defer func() { _ = log.Sync() }()

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	obs := logging.NewObserver(log)
	log = obs.Logger()
	ic.Observer = obs

	return interpolateFile(ctx, log, opts, cfg, ic, *cfg.Skip)
}

func interpolateFile(ctx context.Context, log *zap.Logger, opts options, cfg config.Config, ic *interpolator.Config, n int) error {
	log.Info("loading motion",
		zap.String("skeleton", opts.skeleton),
		zap.String("input", opts.input),
		zap.Float64("scale", cfg.Scale))

	in, err := loadMotion(opts.skeleton, opts.input, cfg.Scale)
	if err != nil {
		return err
	}
	log.Info("motion loaded",
		zap.Int("frames", in.NumFrames()),
		zap.Int("bones", in.NumBones()),
		zap.String("fingerprint", fingerprint(in)))

	if err := ctx.Err(); err != nil {
		return err
	}

	ip, err := interpolator.New(ic)
	if err != nil {
		return err
	}
	info := interpolator.GetInfo(ip)
	log.Info("interpolating",
		zap.String("method", info.Method),
		zap.Int("n", n),
		zap.Bool("parallel", info.Parallel))

	out, err := ip.Interpolate(in, n)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Written files carry all three rotations for every bone.
	in.Skeleton().EnableAllRotationalDOFs()
	if err := writeMotion(opts.output, out, cfg.Scale); err != nil {
		return err
	}
	log.Info("motion written",
		zap.String("output", opts.output),
		zap.String("fingerprint", fingerprint(out)))

	if cfg.Curves.Path != "" {
		if err := exportCurves(cfg.Curves.Path, out, cfg.Curves.Bones, cfg.Curves.FPS); err != nil {
			return err
		}
		log.Info("curves exported", zap.String("path", cfg.Curves.Path), zap.Strings("bones", cfg.Curves.Bones))
	}

	if opts.compare {
		return reportComparison(log, in, out)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
