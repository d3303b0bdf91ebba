package interpolator

import "github.com/tphakala/go-mocap-interpolator/motion"

// InterpolateMotion is a one-shot helper: it builds a sequential
// interpolator for the given type and representation and runs it once.
func InterpolateMotion(in *motion.Motion, n int, typ InterpolationType, angles AngleRepresentation) (*motion.Motion, error) {
	ip, err := New(&Config{Type: typ, Angles: angles})
	if err != nil {
		return nil, err
	}
	return ip.Interpolate(in, n)
}

// Combinations lists the four supported type/representation pairs in a
// stable order: linear-euler, bezier-euler, linear-quaternion, bezier-quaternion.
func Combinations() []Config {
	return []Config{
		{Type: Linear, Angles: Euler},
		{Type: Bezier, Angles: Euler},
		{Type: Linear, Angles: Quaternion},
		{Type: Bezier, Angles: Quaternion},
	}
}
