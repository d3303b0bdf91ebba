package curve

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-mocap-interpolator/internal/testutil"
)

func TestSelect(t *testing.T) {
	m := testutil.RampMotion(4, 3)
	skel := m.Skeleton()

	all, err := Select(skel, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6+3+3, "root has translation and rotation, bones rotation only")
	assert.Equal(t, "root.tx", all[0].Name)
	assert.True(t, all[0].Root)
	assert.Equal(t, "root.rx", all[3].Name)
	assert.Equal(t, "bone1.rx", all[6].Name)
	assert.Equal(t, 1, all[6].Bone)

	some, err := Select(skel, []string{"bone2"})
	require.NoError(t, err)
	require.Len(t, some, 3)
	assert.Equal(t, []string{"bone2.rx", "bone2.ry", "bone2.rz"},
		[]string{some[0].Name, some[1].Name, some[2].Name})

	_, err = Select(skel, []string{"tail"})
	assert.Error(t, err)

	_, err = Select(nil, nil)
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	m := testutil.RampMotion(5, 2)
	chans, err := Select(m.Skeleton(), nil)
	require.NoError(t, err)

	s := Extract(m, chans)
	require.Equal(t, 5, s.NumFrames())
	for f := range 5 {
		p := m.Posture(f)
		assert.Equal(t, p.Root.Y, s.Samples[1][f])
		assert.Equal(t, p.Bones[0].Z, s.Samples[5][f])
		assert.Equal(t, p.Bones[1].X, s.Samples[6][f])
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	m := testutil.WaveMotion(30, 3)
	chans, err := Select(m.Skeleton(), []string{"root", "bone1"})
	require.NoError(t, err)
	s := Extract(m, chans)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, 120))

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "frame,time,root.tx,root.ty,root.tz,root.rx,root.ry,root.rz,bone1.rx,bone1.ry,bone1.rz", header)

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back.Channels, len(chans))
	assert.Equal(t, chans[4].Name, back.Channels[4].Name)
	assert.Equal(t, s.Samples, back.Samples)
}

func TestCSV_Errors(t *testing.T) {
	assert.Error(t, WriteCSV(&bytes.Buffer{}, Set{}, 0))

	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
	_, err = ReadCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.Error(t, err)
	_, err = ReadCSV(strings.NewReader("frame,time,x\n0,0,abc\n"))
	assert.Error(t, err)
}

func TestWAV_RoundTrip(t *testing.T) {
	m := testutil.WaveMotion(64, 2)
	chans, err := Select(m.Skeleton(), nil)
	require.NoError(t, err)
	s := Extract(m, chans)

	path := filepath.Join(t.TempDir(), "curves.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, s, 120))
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	back, fps, err := ReadWAV(in)
	require.NoError(t, err)
	assert.Equal(t, 120, fps)
	require.Len(t, back.Samples, len(chans))
	require.Equal(t, s.NumFrames(), back.NumFrames())

	// One 24-bit step is FullScale / 2^23.
	step := FullScale / (1 << 23)
	for c := range chans {
		for i := range s.NumFrames() {
			assert.InDelta(t, s.Samples[c][i], back.Samples[c][i], step, "channel %s frame %d", chans[c].Name, i)
		}
	}
}

func TestWAV_Clipping(t *testing.T) {
	assert.Equal(t, wavMaxInt, toPCM(FullScale*3))
	assert.Equal(t, -wavMaxInt, toPCM(-FullScale*3))
	assert.Equal(t, 0, toPCM(0))
}

func TestWAV_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Error(t, WriteWAV(f, Set{}, 120))
	assert.Error(t, WriteWAV(f, Set{Channels: []Channel{{Name: "x"}}, Samples: [][]float64{{1}}}, 0))

	_, _, err = ReadWAV(bytes.NewReader([]byte("not a wav file at all")))
	assert.Error(t, err)
}
