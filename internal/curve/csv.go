package curve

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	columnFrame = "frame"
	columnTime  = "time"
)

// WriteCSV writes one row per frame: frame index, time in seconds at fps,
// then one column per channel.
func WriteCSV(w io.Writer, s Set, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("curve: fps must be positive, got %d", fps)
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(s.Channels)+2)
	header = append(header, columnFrame, columnTime)
	for _, ch := range s.Channels {
		header = append(header, ch.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for f := range s.NumFrames() {
		row[0] = strconv.Itoa(f)
		row[1] = strconv.FormatFloat(float64(f)/float64(fps), 'f', -1, 64)
		for c := range s.Channels {
			row[c+2] = strconv.FormatFloat(s.Samples[c][f], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. Channel names are kept; bone
// and axis indices are not recoverable and left zero.
func ReadCSV(r io.Reader) (Set, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return Set{}, fmt.Errorf("curve: %w", err)
	}
	if len(records) == 0 {
		return Set{}, fmt.Errorf("curve: empty csv")
	}
	header := records[0]
	if len(header) < 2 || header[0] != columnFrame || header[1] != columnTime {
		return Set{}, fmt.Errorf("curve: unexpected header %v", header)
	}

	s := Set{
		Channels: make([]Channel, len(header)-2),
		Samples:  make([][]float64, len(header)-2),
	}
	for c, name := range header[2:] {
		s.Channels[c] = Channel{Name: name}
		s.Samples[c] = make([]float64, 0, len(records)-1)
	}
	for i, rec := range records[1:] {
		for c := range s.Channels {
			v, err := strconv.ParseFloat(rec[c+2], 64)
			if err != nil {
				return Set{}, fmt.Errorf("curve: row %d column %q: %w", i+1, header[c+2], err)
			}
			s.Samples[c] = append(s.Samples[c], v)
		}
	}
	return s, nil
}
