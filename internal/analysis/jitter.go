package analysis

import (
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-mocap-interpolator/internal/curve"
	"github.com/tphakala/go-mocap-interpolator/motion"
)

// DefaultJitterCutoff is the fraction of the Nyquist frequency above which
// spectral energy counts as jitter.
const DefaultJitterCutoff = 0.25

// Jitter returns the share of spectral energy of samples that lies above
// cutoff (a fraction of the Nyquist frequency, in (0, 1)). The mean is
// removed first. Constant or too-short curves have no jitter.
func Jitter(samples []float64, cutoff float64) float64 {
	n := len(samples)
	if n < 4 {
		return 0
	}

	centered := make([]float64, n)
	copy(centered, samples)
	floats.AddConst(-f64.Sum(samples)/float64(n), centered)

	coeffs := fourier.NewFFT(n).Coefficients(nil, centered)
	half := float64(len(coeffs) - 1)

	var total, high float64
	for k := 1; k < len(coeffs); k++ {
		e := cmplx.Abs(coeffs[k])
		e *= e
		total += e
		if float64(k)/half > cutoff {
			high += e
		}
	}
	if total == 0 {
		return 0
	}
	return high / total
}

// MotionJitter returns the mean Jitter over the rotation channels of m.
func MotionJitter(m *motion.Motion, cutoff float64) (float64, error) {
	chans, err := rotationChannels(m)
	if err != nil {
		return 0, err
	}
	if len(chans) == 0 {
		return 0, nil
	}

	s := curve.Extract(m, chans)
	values := make([]float64, len(chans))
	for c := range chans {
		values[c] = Jitter(s.Samples[c], cutoff)
	}
	return f64.Sum(values) / float64(len(values)), nil
}
