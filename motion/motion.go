// Package motion holds the skeletal posture containers exchanged between
// the motion file readers and the interpolation engine.
package motion

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Posture is one sampled frame of a skeletal pose.
type Posture struct {
	// Root is the world offset of the skeleton root.
	Root r3.Vec

	// Bones holds one Euler triple (degrees, X/Y/Z) per bone.
	// Index 0 is the skeleton root.
	Bones []r3.Vec
}

// NewPosture returns a zero posture with room for numBones bones.
func NewPosture(numBones int) Posture {
	return Posture{Bones: make([]r3.Vec, numBones)}
}

// Clone returns a deep copy of p.
func (p Posture) Clone() Posture {
	bones := make([]r3.Vec, len(p.Bones))
	copy(bones, p.Bones)
	return Posture{Root: p.Root, Bones: bones}
}

// Equal reports whether p and q hold exactly the same values.
func (p Posture) Equal(q Posture) bool {
	if p.Root != q.Root || len(p.Bones) != len(q.Bones) {
		return false
	}
	for i := range p.Bones {
		if p.Bones[i] != q.Bones[i] {
			return false
		}
	}
	return true
}

// Motion is an ordered sequence of postures bound to a skeleton.
// The skeleton is only consulted for its bone count.
type Motion struct {
	skeleton *Skeleton
	postures []Posture
}

// NewMotion allocates a motion of numFrames zero postures sized for skeleton.
// A nil skeleton yields postures with no bones.
func NewMotion(numFrames int, skeleton *Skeleton) *Motion {
	if numFrames < 0 {
		numFrames = 0
	}
	numBones := skeleton.NumBones()
	m := &Motion{
		skeleton: skeleton,
		postures: make([]Posture, numFrames),
	}
	for i := range m.postures {
		m.postures[i] = NewPosture(numBones)
	}
	return m
}

// NumFrames returns the number of postures.
func (m *Motion) NumFrames() int {
	return len(m.postures)
}

// NumBones returns the number of bones per posture.
func (m *Motion) NumBones() int {
	if m.skeleton != nil {
		return m.skeleton.NumBones()
	}
	if len(m.postures) > 0 {
		return len(m.postures[0].Bones)
	}
	return 0
}

// Skeleton returns the skeleton the motion was built for.
func (m *Motion) Skeleton() *Skeleton {
	return m.skeleton
}

// Posture returns a copy of frame i.
func (m *Motion) Posture(i int) Posture {
	return m.postures[i].Clone()
}

// SetPosture stores a copy of p at frame i. When the motion has a skeleton
// the posture must carry exactly one rotation per bone.
func (m *Motion) SetPosture(i int, p Posture) error {
	if i < 0 || i >= len(m.postures) {
		return fmt.Errorf("motion: frame %d out of range [0, %d)", i, len(m.postures))
	}
	if m.skeleton != nil && len(p.Bones) != m.skeleton.NumBones() {
		return fmt.Errorf("motion: frame %d has %d bones, skeleton has %d", i, len(p.Bones), m.skeleton.NumBones())
	}
	m.postures[i] = p.Clone()
	return nil
}

// Fingerprint returns an xxhash digest over every value of the motion.
// Two motions with the same fingerprint are identical for all practical purposes.
func (m *Motion) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	for _, p := range m.postures {
		put(p.Root.X)
		put(p.Root.Y)
		put(p.Root.Z)
		for _, b := range p.Bones {
			put(b.X)
			put(b.Y)
			put(b.Z)
		}
	}
	return d.Sum64()
}
