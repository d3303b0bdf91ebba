package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interpolator "github.com/tphakala/go-mocap-interpolator"
	"github.com/tphakala/go-mocap-interpolator/internal/mocap"
)

const sampleYAML = `
type: bezier
angles: quaternion
skip: 20
parallel: true
workers: 3
scale: 0.1
log:
  level: debug
  encoding: json
curves:
  path: curves.csv
  bones: [root, lfemur]
  fps: 60
`

func intPtr(v int) *int { return &v }

func TestLoadYAML(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "bezier", cfg.Type)
	assert.Equal(t, "quaternion", cfg.Angles)
	require.NotNil(t, cfg.Skip)
	assert.Equal(t, 20, *cfg.Skip)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, 3, cfg.Workers)
	assert.InDelta(t, 0.1, cfg.Scale, 1e-15)
	assert.Equal(t, LogConfig{Level: "debug", Encoding: "json"}, cfg.Log)
	assert.Equal(t, []string{"root", "lfemur"}, cfg.Curves.Bones)
	assert.Equal(t, 60, cfg.Curves.FPS)
}

func TestLoadYAML_Empty(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadYAML_UnknownField(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("tpye: linear\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interpolate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bezier", cfg.Type)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve_Defaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, DefaultType, cfg.Type)
	assert.Equal(t, DefaultAngles, cfg.Angles)
	assert.Nil(t, cfg.Skip)
	assert.Zero(t, cfg.Workers, "engine picks the worker count")
	assert.InDelta(t, mocap.DefaultScale, cfg.Scale, 1e-15)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogEncoding, cfg.Log.Encoding)
	assert.Equal(t, DefaultFPS, cfg.Curves.FPS)
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	skip := 4
	parallel := false
	cfg.Resolve(Flags{
		Type:       "l",
		Skip:       &skip,
		Parallel:   &parallel,
		LogLevel:   "warn",
		CurveBones: []string{"head"},
	})

	assert.Equal(t, "l", cfg.Type)
	assert.Equal(t, "quaternion", cfg.Angles, "unset flag keeps file value")
	require.NotNil(t, cfg.Skip)
	assert.Equal(t, 4, *cfg.Skip)
	skip = 9
	assert.Equal(t, 4, *cfg.Skip, "flag value is copied")
	assert.False(t, cfg.Parallel)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, []string{"head"}, cfg.Curves.Bones)
}

func TestInterpolator(t *testing.T) {
	cfg := Config{Type: "b", Angles: "q", Skip: intPtr(5), Parallel: true, Workers: 2}
	ic, err := cfg.Interpolator()
	require.NoError(t, err)
	assert.Equal(t, interpolator.Bezier, ic.Type)
	assert.Equal(t, interpolator.Quaternion, ic.Angles)
	assert.True(t, ic.EnableParallel)
	assert.Equal(t, 2, ic.Workers)

	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{"Bad type", Config{Type: "spline", Angles: "e", Skip: intPtr(1)}, interpolator.ErrInvalidConfig},
		{"Bad angles", Config{Type: "l", Angles: "axis", Skip: intPtr(1)}, interpolator.ErrInvalidConfig},
		{"Missing skip", Config{Type: "l", Angles: "e"}, ErrMissingSkip},
		{"Negative skip", Config{Type: "l", Angles: "e", Skip: intPtr(-2)}, interpolator.ErrNegativeSkip},
		{"Too many workers", Config{Type: "l", Angles: "e", Skip: intPtr(1), Workers: 100000}, interpolator.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Interpolator()
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestResolve_DefaultsAreValid(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Skip: intPtr(3)})

	ic, err := cfg.Interpolator()
	require.NoError(t, err)
	assert.Zero(t, ic.Workers)
	require.NoError(t, ic.Validate())
}

func TestResolve_FileWithoutSkip(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader("type: bezier\nangles: quaternion\n"))
	require.NoError(t, err)
	cfg.Resolve(Flags{})

	_, err = cfg.Interpolator()
	assert.ErrorIs(t, err, ErrMissingSkip)
}
