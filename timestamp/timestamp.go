// Package timestamp parses and formats the HH:MM:SS,mmm timestamps used
// by transcript segments and evidence time ranges.
package timestamp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrMalformedRange     = errors.New("malformed range")
)

// RangeSeparator splits the two sides of an evidence time range.
const RangeSeparator = "-->"

// Parse converts "HH:MM:SS,mmm" into seconds. The milliseconds part is
// optional; everything else must be present and numeric.
func Parse(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	secParts := strings.SplitN(parts[2], ",", 2)
	sec, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	ms := 0
	if len(secParts) == 2 {
		ms, err = strconv.Atoi(secParts[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
		}
	}
	if h < 0 || m < 0 || sec < 0 || ms < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000, nil
}

// Format renders seconds as "HH:MM:SS,mmm", the inverse of Parse.
func Format(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(math.Round(sec * 1000))
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s/60)%60, s%60, ms)
}

// ParseRange splits "start --> end" and parses both sides.
func ParseRange(s string) (start, end float64, err error) {
	parts := strings.Split(s, RangeSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	start, err = Parse(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedRange, s, err)
	}
	end, err = Parse(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedRange, s, err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("%w: %q: end before start", ErrMalformedRange, s)
	}
	return start, end, nil
}
