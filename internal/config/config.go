// Package config loads the YAML configuration shared by the command line
// tools and merges it with command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	interpolator "github.com/tphakala/go-mocap-interpolator"
	"github.com/tphakala/go-mocap-interpolator/internal/mocap"
)

// Config holds interpolation, I/O and logging settings.
type Config struct {
	// Interpolation
	Type     string `yaml:"type"`
	Angles   string `yaml:"angles"`
	Skip     *int   `yaml:"skip"` // nil until set by the file or a flag
	Parallel bool   `yaml:"parallel"`
	Workers  int    `yaml:"workers"` // 0 lets the engine use one per CPU

	// Root translation scale applied when reading and writing AMC files.
	Scale float64 `yaml:"scale"`

	Log    LogConfig    `yaml:"log"`
	Curves CurvesConfig `yaml:"curves"`
}

// LogConfig selects zap level and encoding.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// CurvesConfig controls channel curve export.
type CurvesConfig struct {
	Path  string   `yaml:"path"`
	Bones []string `yaml:"bones"`
	FPS   int      `yaml:"fps"`
}

// ErrMissingSkip reports that neither the file nor the flags set N.
var ErrMissingSkip = errors.New("config: skip count (N) is not set")

// Default values applied by Resolve.
const (
	DefaultType        = "linear"
	DefaultAngles      = "euler"
	DefaultLogLevel    = "info"
	DefaultLogEncoding = "console"
	DefaultFPS         = 120
)

// Load reads a YAML config file. Fields not set in the file keep their
// zero values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadYAML(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadYAML decodes a config from r. Unknown keys are rejected. An empty
// document yields the zero Config.
func LoadYAML(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Flags holds command line values that override config file settings.
// Nil pointers and empty strings mean "not given".
type Flags struct {
	Type        string
	Angles      string
	Skip        *int
	Parallel    *bool
	Workers     int
	Scale       float64
	LogLevel    string
	LogEncoding string
	CurvesPath  string
	CurveBones  []string
	FPS         int
}

// Resolve applies flag overrides and fills remaining empty fields with
// defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Type != "" {
		c.Type = flags.Type
	}
	if flags.Angles != "" {
		c.Angles = flags.Angles
	}
	if flags.Skip != nil {
		n := *flags.Skip
		c.Skip = &n
	}
	if flags.Parallel != nil {
		c.Parallel = *flags.Parallel
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.LogEncoding != "" {
		c.Log.Encoding = flags.LogEncoding
	}
	if flags.CurvesPath != "" {
		c.Curves.Path = flags.CurvesPath
	}
	if len(flags.CurveBones) > 0 {
		c.Curves.Bones = flags.CurveBones
	}
	if flags.FPS > 0 {
		c.Curves.FPS = flags.FPS
	}

	// Defaults
	if c.Type == "" {
		c.Type = DefaultType
	}
	if c.Angles == "" {
		c.Angles = DefaultAngles
	}
	if c.Scale <= 0 {
		c.Scale = mocap.DefaultScale
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = DefaultLogEncoding
	}
	if c.Curves.FPS <= 0 {
		c.Curves.FPS = DefaultFPS
	}
}

// Interpolator converts the resolved settings into an interpolator
// configuration. The skip count is checked here so that a bad value is
// reported before any file is read.
func (c *Config) Interpolator() (*interpolator.Config, error) {
	typ, err := interpolator.ParseInterpolationType(c.Type)
	if err != nil {
		return nil, err
	}
	angles, err := interpolator.ParseAngleRepresentation(c.Angles)
	if err != nil {
		return nil, err
	}
	if c.Skip == nil {
		return nil, ErrMissingSkip
	}
	if *c.Skip < 0 {
		return nil, fmt.Errorf("%w: got %d", interpolator.ErrNegativeSkip, *c.Skip)
	}

	ic := &interpolator.Config{
		Type:           typ,
		Angles:         angles,
		EnableParallel: c.Parallel,
		Workers:        c.Workers,
	}
	if err := ic.Validate(); err != nil {
		return nil, err
	}
	return ic, nil
}
