package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusRange represents a range of HTTP status codes.
type StatusRange struct {
	Lo, Hi int
}

// StatusSet is the set of ranges counted as a successful attempt.
type StatusSet []StatusRange

// DefaultStatusSet counts any 2xx or 3xx response as success.
var DefaultStatusSet = StatusSet{{200, 399}}

// ParseStatusRange parses a status range string like "200", "2xx", "200-299".
func ParseStatusRange(s string) (StatusRange, error) {
	s = strings.TrimSpace(s)
	// Pattern: Nxx (e.g. "4xx", "5xx")
	if len(s) == 3 && s[1] == 'x' && s[2] == 'x' {
		base := int(s[0]-'0') * 100
		if base < 100 || base > 500 {
			return StatusRange{}, fmt.Errorf("invalid status range %q", s)
		}
		return StatusRange{base, base + 99}, nil
	}
	// Pattern: N-M (e.g. "200-299")
	if parts := strings.SplitN(s, "-", 2); len(parts) == 2 {
		lo, err1 := strconv.Atoi(parts[0])
		hi, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || lo < 100 || hi > 599 || lo > hi {
			return StatusRange{}, fmt.Errorf("invalid status range %q", s)
		}
		return StatusRange{lo, hi}, nil
	}
	// Pattern: single code (e.g. "200")
	code, err := strconv.Atoi(s)
	if err != nil || code < 100 || code > 599 {
		return StatusRange{}, fmt.Errorf("invalid status code %q", s)
	}
	return StatusRange{code, code}, nil
}

// ParseStatusSet parses a list of range strings. An empty list yields
// the default 2xx/3xx set.
func ParseStatusSet(specs []string) (StatusSet, error) {
	if len(specs) == 0 {
		return DefaultStatusSet, nil
	}
	set := make(StatusSet, 0, len(specs))
	for _, spec := range specs {
		r, err := ParseStatusRange(spec)
		if err != nil {
			return nil, fmt.Errorf("expected_status: %w", err)
		}
		set = append(set, r)
	}
	return set, nil
}

// Matches checks if a status code falls within any of the set's ranges.
func (s StatusSet) Matches(code int) bool {
	for _, r := range s {
		if code >= r.Lo && code <= r.Hi {
			return true
		}
	}
	return false
}
