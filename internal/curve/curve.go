// Package curve extracts per-channel sample curves from motions and writes
// them as CSV tables or multichannel WAV files for plotting and inspection.
package curve

import (
	"fmt"

	"github.com/tphakala/go-mocap-interpolator/internal/mathutil"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

// Channel identifies one scalar curve of a motion.
type Channel struct {
	Name string // e.g. "lfemur.rx" or "root.tx"
	Bone int
	Axis int  // 0, 1 or 2
	Root bool // root translation instead of a bone rotation
}

// Set holds sampled curves. Samples[c][f] is channel c at frame f.
type Set struct {
	Channels []Channel
	Samples  [][]float64
}

// NumFrames returns the number of samples per channel.
func (s Set) NumFrames() int {
	if len(s.Samples) == 0 {
		return 0
	}
	return len(s.Samples[0])
}

// Select returns the channels of the named bones: translation and rotation
// for the root, rotation for every other bone. No names selects all bones.
func Select(skel *motion.Skeleton, bones []string) ([]Channel, error) {
	if skel == nil {
		return nil, fmt.Errorf("curve: motion has no skeleton")
	}

	indices := make([]int, 0, len(bones))
	if len(bones) == 0 {
		for i := range skel.Bones {
			indices = append(indices, i)
		}
	}
	for _, name := range bones {
		idx := skel.BoneIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("curve: unknown bone %q", name)
		}
		indices = append(indices, idx)
	}

	var chans []Channel
	for _, idx := range indices {
		name := skel.Bones[idx].Name
		if idx == 0 {
			for axis, ch := range []motion.Channel{motion.ChannelTX, motion.ChannelTY, motion.ChannelTZ} {
				chans = append(chans, Channel{Name: name + "." + ch.String(), Bone: 0, Axis: axis, Root: true})
			}
		}
		for axis, ch := range []motion.Channel{motion.ChannelRX, motion.ChannelRY, motion.ChannelRZ} {
			chans = append(chans, Channel{Name: name + "." + ch.String(), Bone: idx, Axis: axis})
		}
	}
	return chans, nil
}

// Extract samples the given channels over every frame of m.
func Extract(m *motion.Motion, chans []Channel) Set {
	s := Set{
		Channels: chans,
		Samples:  make([][]float64, len(chans)),
	}
	for c := range chans {
		s.Samples[c] = make([]float64, m.NumFrames())
	}

	for f := range m.NumFrames() {
		p := m.Posture(f)
		for c, ch := range chans {
			if ch.Root {
				s.Samples[c][f] = mathutil.Component(p.Root, ch.Axis)
			} else {
				s.Samples[c][f] = mathutil.Component(p.Bones[ch.Bone], ch.Axis)
			}
		}
	}
	return s
}
