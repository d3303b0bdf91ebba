package curve

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV export parameters. Curves are stored as 24-bit PCM with the sample
// rate set to the motion frame rate, one WAV channel per curve. Values are
// divided by FullScale, so ±FullScale maps to full-scale PCM; larger
// magnitudes are clipped.
const (
	FullScale   = 1024.0
	wavBitDepth = 24
	wavPCM      = 1
	wavMaxInt   = 1<<(wavBitDepth-1) - 1
)

// WriteWAV encodes s as a multichannel WAV at fps samples per second.
func WriteWAV(ws io.WriteSeeker, s Set, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("curve: fps must be positive, got %d", fps)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("curve: no channels to write")
	}

	numChans := len(s.Channels)
	frames := s.NumFrames()
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: fps},
		Data:           make([]int, frames*numChans),
		SourceBitDepth: wavBitDepth,
	}
	for f := range frames {
		for c := range numChans {
			buf.Data[f*numChans+c] = toPCM(s.Samples[c][f])
		}
	}

	enc := wav.NewEncoder(ws, fps, wavBitDepth, numChans, wavPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("curve: encode wav: %w", err)
	}
	return enc.Close()
}

// ReadWAV decodes a WAV written by WriteWAV. It returns the curves, with
// generic channel names, and the frame rate.
func ReadWAV(rs io.ReadSeeker) (Set, int, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return Set{}, 0, fmt.Errorf("curve: not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Set{}, 0, fmt.Errorf("curve: decode wav: %w", err)
	}

	numChans := int(dec.NumChans)
	if numChans == 0 {
		return Set{}, 0, fmt.Errorf("curve: wav has no channels")
	}
	maxInt := float64(int(1)<<(int(dec.BitDepth)-1) - 1)
	frames := len(buf.Data) / numChans

	s := Set{
		Channels: make([]Channel, numChans),
		Samples:  make([][]float64, numChans),
	}
	for c := range numChans {
		s.Channels[c] = Channel{Name: fmt.Sprintf("ch%d", c)}
		s.Samples[c] = make([]float64, frames)
		for f := range frames {
			s.Samples[c][f] = float64(buf.Data[f*numChans+c]) / maxInt * FullScale
		}
	}
	return s, int(dec.SampleRate), nil
}

func toPCM(v float64) int {
	x := math.Round(v / FullScale * wavMaxInt)
	return int(math.Max(-wavMaxInt, math.Min(wavMaxInt, x)))
}
