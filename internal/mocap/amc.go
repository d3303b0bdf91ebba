package mocap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/internal/mathutil"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

const radToDeg = 180 / math.Pi

var fullRotation = []motion.Channel{motion.ChannelRX, motion.ChannelRY, motion.ChannelRZ}

// AMC header keywords.
const (
	keywordFullySpecified = ":FULLY-SPECIFIED"
	keywordDegrees        = ":DEGREES"
	keywordRadians        = ":RADIANS"
)

// ReadMotion parses an AMC file against skel. Root translations are
// multiplied by scale; rotations are stored in degrees. Bones absent from a
// frame, and channels a bone does not list in its DOF, stay zero. A non-root
// bone may also carry exactly three values, read as rx ry rz, which is the
// shape WriteMotion produces.
func ReadMotion(r io.Reader, skel *motion.Skeleton, scale float64) (*motion.Motion, error) {
	if skel == nil {
		return nil, ErrNoSkeleton
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		postures []motion.Posture
		current  *motion.Posture
		radians  bool
		line     int
	)
	fail := func(format string, args ...any) error {
		return &ParseError{File: "amc", Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if strings.HasPrefix(fields[0], ":") {
			switch strings.ToUpper(fields[0]) {
			case keywordDegrees:
				radians = false
			case keywordRadians:
				radians = true
			}
			continue
		}

		if len(fields) == 1 {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &ParseError{File: "amc", Line: line, Msg: "frame number", Err: err}
			}
			if n != len(postures)+1 {
				return nil, fail("frame %d out of sequence, want %d", n, len(postures)+1)
			}
			postures = append(postures, motion.NewPosture(skel.NumBones()))
			current = &postures[len(postures)-1]
			continue
		}

		if current == nil {
			return nil, fail("bone data before first frame number")
		}
		idx := skel.BoneIndex(fields[0])
		if idx < 0 {
			return nil, fail("unknown bone %q", fields[0])
		}
		dof := skel.Bones[idx].DOF
		values := fields[1:]
		if idx > 0 && len(values) == len(fullRotation) {
			// Written with all rotational DOFs enabled.
			dof = fullRotation
		}
		if len(values) != len(dof) {
			return nil, fail("bone %q has %d values, want %d", fields[0], len(values), len(dof))
		}

		for i, ch := range dof {
			v, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				return nil, &ParseError{File: "amc", Line: line, Msg: "value for " + fields[0], Err: err}
			}
			if ch.IsRotation() {
				if radians {
					v *= radToDeg
				}
				current.Bones[idx] = setAxis(current.Bones[idx], ch.Axis(), v)
			} else {
				current.Root = setAxis(current.Root, ch.Axis(), v*scale)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{File: "amc", Line: line, Msg: "read", Err: err}
	}

	m := motion.NewMotion(len(postures), skel)
	for i, p := range postures {
		if err := m.SetPosture(i, p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WriteMotion writes m as a fully specified AMC file in degrees. Root
// translations are divided by scale. The root follows its channel order;
// every other bone is written with all three rotations.
func WriteMotion(w io.Writer, m *motion.Motion, scale float64) error {
	skel := m.Skeleton()
	if skel == nil {
		return ErrNoSkeleton
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, keywordFullySpecified)
	fmt.Fprintln(bw, keywordDegrees)

	buf := make([]byte, 0, 256)
	for f := range m.NumFrames() {
		p := m.Posture(f)
		buf = strconv.AppendInt(buf[:0], int64(f+1), 10)
		buf = append(buf, '\n')

		buf = append(buf, skel.Bones[0].Name...)
		for _, ch := range skel.Bones[0].DOF {
			v := mathutil.Component(p.Bones[0], ch.Axis())
			if !ch.IsRotation() {
				v = mathutil.Component(p.Root, ch.Axis()) / scale
			}
			buf = appendValue(buf, v)
		}
		buf = append(buf, '\n')

		for b := 1; b < len(skel.Bones); b++ {
			buf = append(buf, skel.Bones[b].Name...)
			buf = appendValue(buf, p.Bones[b].X)
			buf = appendValue(buf, p.Bones[b].Y)
			buf = appendValue(buf, p.Bones[b].Z)
			buf = append(buf, '\n')
		}

		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write frame %d: %w", f+1, err)
		}
	}
	return bw.Flush()
}

func appendValue(buf []byte, v float64) []byte {
	buf = append(buf, ' ')
	return strconv.AppendFloat(buf, v, 'f', -1, 64)
}

func setAxis(v r3.Vec, axis int, value float64) r3.Vec {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}
