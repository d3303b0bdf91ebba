// Package mocap reads Acclaim skeleton (ASF) files and reads and writes
// Acclaim motion (AMC) files.
package mocap

import (
	"errors"
	"fmt"
)

// DefaultScale converts AMC root translations to the units used in memory.
const DefaultScale = 0.06

// ErrNoSkeleton is returned when a motion without a skeleton is written.
var ErrNoSkeleton = errors.New("motion has no skeleton")

// ParseError reports a malformed line in an ASF or AMC file.
type ParseError struct {
	File string // "asf" or "amc"
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s line %d: %s: %v", e.File, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
