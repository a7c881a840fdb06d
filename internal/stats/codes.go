package stats

import "sync"

// TransportErrorCode is the pseudo status under which transport-level
// failures (connection refused, timeout, DNS) are tallied.
const TransportErrorCode = 0

// StatusCodes tallies attempts by HTTP status code.
type StatusCodes struct {
	mu    sync.Mutex
	codes map[int]uint64
}

// NewStatusCodes returns an empty tally.
func NewStatusCodes() *StatusCodes {
	return &StatusCodes{codes: make(map[int]uint64)}
}

// Record counts one attempt under the given status code.
func (s *StatusCodes) Record(code int) {
	s.mu.Lock()
	s.codes[code]++
	s.mu.Unlock()
}

// Snapshot returns a copy of the tally.
func (s *StatusCodes) Snapshot() map[int]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]uint64, len(s.codes))
	for code, n := range s.codes {
		out[code] = n
	}
	return out
}

// Reset discards the tally.
func (s *StatusCodes) Reset() {
	s.mu.Lock()
	s.codes = make(map[int]uint64)
	s.mu.Unlock()
}
