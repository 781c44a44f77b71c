// Package slot tags asynchronous requests so that only the most recent one
// may publish its result.
package slot

import "sync/atomic"

type Slot struct {
	latest atomic.Uint64
}

// Begin starts a new request and returns its id. Earlier ids become stale.
func (s *Slot) Begin() uint64 {
	return s.latest.Add(1)
}

func (s *Slot) IsCurrent(id uint64) bool {
	return id != 0 && s.latest.Load() == id
}

func (s *Slot) Latest() uint64 {
	return s.latest.Load()
}
