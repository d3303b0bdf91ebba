package mocap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tphakala/go-mocap-interpolator/motion"
)

// asfReader is a line-oriented parser for ASF skeleton files.
type asfReader struct {
	sc      *bufio.Scanner
	line    int
	radians bool
	skel    *motion.Skeleton
}

// ReadSkeleton parses an ASF file. Bone 0 is the root; the remaining bones
// keep the order of the :bonedata section. Parents come from :hierarchy.
func ReadSkeleton(r io.Reader) (*motion.Skeleton, error) {
	ar := &asfReader{
		sc:   bufio.NewScanner(r),
		skel: motion.NewSkeleton(),
	}
	ar.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if err := ar.parse(); err != nil {
		return nil, err
	}
	return ar.skel, nil
}

func (ar *asfReader) errorf(format string, args ...any) error {
	return &ParseError{File: "asf", Line: ar.line, Msg: fmt.Sprintf(format, args...)}
}

func (ar *asfReader) parse() error {
	section := ""
	var bone *motion.Bone
	hierarchy := false

	for ar.sc.Scan() {
		ar.line++
		fields := strings.Fields(ar.sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if strings.HasPrefix(fields[0], ":") {
			section = strings.ToLower(fields[0])
			if section == ":name" && len(fields) > 1 {
				ar.skel.Name = fields[1]
			}
			continue
		}

		var err error
		switch section {
		case ":units":
			err = ar.units(fields)
		case ":root":
			err = ar.root(fields)
		case ":bonedata":
			bone, err = ar.boneData(bone, fields)
		case ":hierarchy":
			hierarchy, err = ar.hierarchy(hierarchy, fields)
		}
		if err != nil {
			return err
		}
	}
	if err := ar.sc.Err(); err != nil {
		return &ParseError{File: "asf", Line: ar.line, Msg: "read", Err: err}
	}
	if bone != nil {
		return ar.errorf("bone %q not terminated by end", bone.Name)
	}
	return nil
}

func (ar *asfReader) units(fields []string) error {
	if strings.EqualFold(fields[0], "angle") && len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case "deg":
			ar.radians = false
		case "rad":
			ar.radians = true
		default:
			return ar.errorf("unknown angle unit %q", fields[1])
		}
	}
	return nil
}

func (ar *asfReader) root(fields []string) error {
	root := &ar.skel.Bones[0]
	switch strings.ToLower(fields[0]) {
	case "order":
		dof, err := ar.channels(fields[1:])
		if err != nil {
			return err
		}
		root.DOF = dof
	case "orientation":
		v, err := ar.vec(fields[1:])
		if err != nil {
			return err
		}
		root.Axis = ar.degrees(v)
	}
	return nil
}

func (ar *asfReader) boneData(bone *motion.Bone, fields []string) (*motion.Bone, error) {
	key := strings.ToLower(fields[0])
	if bone == nil {
		if key != "begin" {
			return nil, ar.errorf("expected begin, got %q", fields[0])
		}
		return &motion.Bone{Parent: 0}, nil
	}

	switch key {
	case "end":
		if bone.Name == "" {
			return nil, ar.errorf("bone without name")
		}
		if ar.skel.BoneIndex(bone.Name) >= 0 {
			return nil, ar.errorf("duplicate bone %q", bone.Name)
		}
		ar.skel.Bones = append(ar.skel.Bones, *bone)
		return nil, nil
	case "name":
		if len(fields) < 2 {
			return nil, ar.errorf("name without value")
		}
		bone.Name = fields[1]
	case "direction":
		v, err := ar.vec(fields[1:])
		if err != nil {
			return nil, err
		}
		bone.Direction = v
	case "length":
		if len(fields) < 2 {
			return nil, ar.errorf("length without value")
		}
		l, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &ParseError{File: "asf", Line: ar.line, Msg: "length", Err: err}
		}
		bone.Length = l
	case "axis":
		v, err := ar.vec(fields[1:])
		if err != nil {
			return nil, err
		}
		bone.Axis = ar.degrees(v)
	case "dof":
		dof, err := ar.channels(fields[1:])
		if err != nil {
			return nil, err
		}
		bone.DOF = dof
	}
	// id, limits and their continuation lines carry nothing we keep.
	return bone, nil
}

func (ar *asfReader) hierarchy(open bool, fields []string) (bool, error) {
	switch strings.ToLower(fields[0]) {
	case "begin":
		return true, nil
	case "end":
		return false, nil
	}
	if !open {
		return false, ar.errorf("hierarchy entry outside begin/end")
	}

	parent := ar.skel.BoneIndex(fields[0])
	if parent < 0 {
		return open, ar.errorf("unknown bone %q in hierarchy", fields[0])
	}
	for _, name := range fields[1:] {
		child := ar.skel.BoneIndex(name)
		if child <= 0 {
			return open, ar.errorf("unknown bone %q in hierarchy", name)
		}
		ar.skel.Bones[child].Parent = parent
	}
	return open, nil
}

func (ar *asfReader) channels(tokens []string) ([]motion.Channel, error) {
	dof := make([]motion.Channel, 0, len(tokens))
	for _, tok := range tokens {
		c, ok := motion.ParseChannel(tok)
		if !ok {
			return nil, ar.errorf("unknown channel %q", tok)
		}
		dof = append(dof, c)
	}
	return dof, nil
}

// vec parses the first three tokens. A trailing axis order token such as
// "XYZ" is ignored.
func (ar *asfReader) vec(tokens []string) (r3.Vec, error) {
	if len(tokens) < 3 {
		return r3.Vec{}, ar.errorf("expected 3 values, got %d", len(tokens))
	}
	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return r3.Vec{}, &ParseError{File: "asf", Line: ar.line, Msg: "value", Err: err}
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func (ar *asfReader) degrees(v r3.Vec) r3.Vec {
	if ar.radians {
		return r3.Scale(radToDeg, v)
	}
	return v
}
