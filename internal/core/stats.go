package core

import "sync"

// StatsSnapshot is a point-in-time copy of the pipeline counters.
type StatsSnapshot struct {
	Scheduled    uint64
	Sent         uint64
	SendFailures uint64
	Cancelled    uint64
	Scored       uint64
	SpamFiltered uint64
}

// Stats holds the pipeline counters. It is an explicit, injectable component
// shared by the dispatcher and the spam scorer; construct one per pipeline.
type Stats struct {
	mu   sync.Mutex
	snap StatsSnapshot
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) AddScheduled() {
	s.mu.Lock()
	s.snap.Scheduled++
	s.mu.Unlock()
}

func (s *Stats) AddSent() {
	s.mu.Lock()
	s.snap.Sent++
	s.mu.Unlock()
}

func (s *Stats) AddSendFailure() {
	s.mu.Lock()
	s.snap.SendFailures++
	s.mu.Unlock()
}

func (s *Stats) AddCancelled() {
	s.mu.Lock()
	s.snap.Cancelled++
	s.mu.Unlock()
}

func (s *Stats) AddScored(n int) {
	s.mu.Lock()
	s.snap.Scored += uint64(n)
	s.mu.Unlock()
}

func (s *Stats) AddSpamFiltered(n int) {
	s.mu.Lock()
	s.snap.SpamFiltered += uint64(n)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.snap = StatsSnapshot{}
	s.mu.Unlock()
}
