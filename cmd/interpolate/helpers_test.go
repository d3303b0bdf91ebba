package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tphakala/go-mocap-interpolator/internal/curve"
	"github.com/tphakala/go-mocap-interpolator/internal/mocap"
	"github.com/tphakala/go-mocap-interpolator/internal/testutil"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

const testASF = `:version 1.10
:name test
:units
  angle deg
:root
   order TX TY TZ RX RY RZ
:bonedata
  begin
     id 1
     name lfemur
     dof rx ry rz
  end
  begin
     id 2
     name ltibia
     dof rx
  end
  begin
     id 3
     name rhipjoint
  end
:hierarchy
  begin
    root lfemur rhipjoint
    lfemur ltibia
  end
`

// writeFixtures writes a skeleton and a smooth 41 frame motion to dir.
func writeFixtures(t *testing.T, dir string) (asfPath, amcPath string) {
	t.Helper()
	asfPath = filepath.Join(dir, "test.asf")
	amcPath = filepath.Join(dir, "test.amc")
	require.NoError(t, os.WriteFile(asfPath, []byte(testASF), 0o644))

	skel, err := mocap.ReadSkeleton(strings.NewReader(testASF))
	require.NoError(t, err)

	wave := testutil.WaveMotion(41, skel.NumBones())
	m := motion.NewMotion(wave.NumFrames(), skel)
	for i := range wave.NumFrames() {
		require.NoError(t, m.SetPosture(i, wave.Posture(i)))
	}
	require.NoError(t, writeMotion(amcPath, m, mocap.DefaultScale))
	return asfPath, amcPath
}

func TestParseArgs_Positional(t *testing.T) {
	opts, err := parseArgs([]string{"s.asf", "m.amc", "b", "q", "5", "out.amc"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "s.asf", opts.skeleton)
	assert.Equal(t, "m.amc", opts.input)
	assert.Equal(t, "out.amc", opts.output)
	assert.Equal(t, "b", opts.flags.Type)
	assert.Equal(t, "q", opts.flags.Angles)
	require.NotNil(t, opts.flags.Skip)
	assert.Equal(t, 5, *opts.flags.Skip)
	assert.Nil(t, opts.flags.Parallel)
}

func TestParseArgs_Flags(t *testing.T) {
	opts, err := parseArgs([]string{
		"-skeleton", "s.asf", "-input", "m.amc", "-output", "o.amc",
		"-type", "bezier", "-n", "3", "-parallel", "-curve-bones", "lfemur, ltibia,",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "bezier", opts.flags.Type)
	require.NotNil(t, opts.flags.Skip)
	assert.Equal(t, 3, *opts.flags.Skip)
	require.NotNil(t, opts.flags.Parallel)
	assert.True(t, *opts.flags.Parallel)
	assert.Equal(t, []string{"lfemur", "ltibia"}, opts.flags.CurveBones)
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Too few positional", []string{"s.asf", "m.amc", "l"}},
		{"Bad N", []string{"s.asf", "m.amc", "l", "e", "five", "o.amc"}},
		{"Missing output", []string{"-skeleton", "s.asf", "-input", "m.amc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, &bytes.Buffer{})
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRun_NegativeSkip(t *testing.T) {
	err := run(context.Background(), []string{"s.asf", "m.amc", "l", "e", "-1", "o.amc"}, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "invalid N value (-1)")
}

func TestRun_ConfigWithoutSkip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "interpolate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("type: bezier\nangles: quaternion\n"), 0o644))

	err := run(context.Background(), []string{"-config", cfgPath, "s.asf", "m.amc", "l", "e", "2", "o.amc"}, &bytes.Buffer{})
	require.Error(t, err, "positional N fills the gap")
	assert.NotErrorIs(t, err, errUsage)

	err = run(context.Background(), []string{"-config", cfgPath, "-skeleton", "s.asf", "-input", "m.amc", "-output", "o.amc"}, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "N is required")
}

func TestRun_UnknownType(t *testing.T) {
	err := run(context.Background(), []string{"s.asf", "m.amc", "x", "e", "2", "o.amc"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLoadMotion_Missing(t *testing.T) {
	_, err := loadMotion("/nonexistent/s.asf", "/nonexistent/m.amc", mocap.DefaultScale)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open skeleton file")
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	asfPath, amcPath := writeFixtures(t, dir)
	outPath := filepath.Join(dir, "out.amc")
	csvPath := filepath.Join(dir, "curves.csv")

	err := run(context.Background(), []string{
		"-skeleton", asfPath, "-input", amcPath, "-output", outPath,
		"-type", "b", "-angles", "q", "-n", "4",
		"-log-level", "error", "-curves", csvPath, "-curve-bones", "lfemur", "-compare",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	in, err := loadMotion(asfPath, amcPath, mocap.DefaultScale)
	require.NoError(t, err)
	out, err := loadMotion(asfPath, outPath, mocap.DefaultScale)
	require.NoError(t, err)
	require.Equal(t, in.NumFrames(), out.NumFrames())
	for k := 0; k < in.NumFrames(); k += 5 {
		for b := range in.NumBones() {
			testutil.AssertVecInDelta(t, in.Posture(k).Bones[b], out.Posture(k).Bones[b], 0, "keyframe %d bone %d", k, b)
		}
	}
	// ltibia lists only rx in the skeleton, but the written file carries all
	// three rotations and they read back.
	assert.NotZero(t, out.Posture(2).Bones[2].Y)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	set, err := curve.ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, set.Channels, 3)
	assert.Equal(t, in.NumFrames(), set.NumFrames())
}

func TestExportCurves_WAV(t *testing.T) {
	dir := t.TempDir()
	asfPath, amcPath := writeFixtures(t, dir)
	m, err := loadMotion(asfPath, amcPath, mocap.DefaultScale)
	require.NoError(t, err)

	path := filepath.Join(dir, "curves.WAV")
	require.NoError(t, exportCurves(path, m, nil, 120))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	set, fps, err := curve.ReadWAV(f)
	require.NoError(t, err)
	assert.Equal(t, 120, fps)
	assert.Len(t, set.Channels, 6+3+3+3)
}

func TestReportComparison(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	in := testutil.WaveMotion(30, 3)
	require.NoError(t, reportComparison(zap.New(core), in, in))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, 0.0, fields["mean_rms_deg"])
	assert.Equal(t, int64(30), fields["frames"])
}
