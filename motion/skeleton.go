package motion

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Channel identifies one degree of freedom of a bone.
type Channel int

// Degrees of freedom as named in ASF/AMC files.
const (
	ChannelRX Channel = iota
	ChannelRY
	ChannelRZ
	ChannelTX
	ChannelTY
	ChannelTZ
)

var channelNames = [...]string{"rx", "ry", "rz", "tx", "ty", "tz"}

// String returns the lowercase ASF name of the channel.
func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// IsRotation reports whether c is one of rx, ry, rz.
func (c Channel) IsRotation() bool {
	return c >= ChannelRX && c <= ChannelRZ
}

// Axis returns the vector component (0, 1 or 2) the channel drives.
func (c Channel) Axis() int {
	return int(c) % 3
}

// ParseChannel maps an ASF/AMC token such as "RX" or "tz" to a Channel.
func ParseChannel(s string) (Channel, bool) {
	for i, name := range channelNames {
		if strings.EqualFold(s, name) {
			return Channel(i), true
		}
	}
	return 0, false
}

// Bone describes one joint of the skeleton.
type Bone struct {
	Name   string
	Parent int // -1 for the root
	DOF    []Channel

	// Rest geometry as given in the skeleton file. Not used for interpolation.
	Direction r3.Vec
	Length    float64
	Axis      r3.Vec // degrees
}

// Skeleton defines bone count and topology. Bone 0 is always the root.
type Skeleton struct {
	Name  string
	Bones []Bone
}

// RootName is the conventional name of bone 0.
const RootName = "root"

// NewSkeleton builds a flat skeleton: a root with full translation and
// rotation followed by the named bones, each with three rotational DOFs
// and parented to the root.
func NewSkeleton(boneNames ...string) *Skeleton {
	s := &Skeleton{Bones: []Bone{{
		Name:   RootName,
		Parent: -1,
		DOF:    []Channel{ChannelTX, ChannelTY, ChannelTZ, ChannelRX, ChannelRY, ChannelRZ},
	}}}
	for _, name := range boneNames {
		s.Bones = append(s.Bones, Bone{
			Name:   name,
			Parent: 0,
			DOF:    []Channel{ChannelRX, ChannelRY, ChannelRZ},
		})
	}
	return s
}

// NumBones returns the bone count. A nil skeleton has no bones.
func (s *Skeleton) NumBones() int {
	if s == nil {
		return 0
	}
	return len(s.Bones)
}

// BoneIndex returns the index of the named bone, or -1.
func (s *Skeleton) BoneIndex(name string) int {
	if s == nil {
		return -1
	}
	for i, b := range s.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// EnableAllRotationalDOFs gives every non-root bone rx, ry and rz.
func (s *Skeleton) EnableAllRotationalDOFs() {
	for i := 1; i < len(s.Bones); i++ {
		s.Bones[i].DOF = []Channel{ChannelRX, ChannelRY, ChannelRZ}
	}
}
