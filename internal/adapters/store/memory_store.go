package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the ScheduleStore interface.
// It keeps creation order so due-time ties resolve deterministically.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*core.ScheduledMessage
	ordered []string
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory schedule store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*core.ScheduledMessage),
		logger: logger,
	}
}

// Create persists a new record
func (s *MemoryStore) Create(_ context.Context, msg *core.ScheduledMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[msg.ID]; ok {
		return fmt.Errorf("scheduled message %s already exists", msg.ID)
	}

	s.byID[msg.ID] = cloneMessage(msg)
	s.ordered = append(s.ordered, msg.ID)
	return nil
}

// Get returns the record with the given ID
func (s *MemoryStore) Get(_ context.Context, id string) (*core.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneMessage(msg), nil
}

// List returns all records in creation order, optionally filtered by status
func (s *MemoryStore) List(_ context.Context, status core.Status) ([]*core.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.ScheduledMessage
	for _, id := range s.ordered {
		msg := s.byID[id]
		if status == "" || msg.Status == status {
			out = append(out, cloneMessage(msg))
		}
	}
	return out, nil
}

// Due returns pending records due at or before now, ordered by scheduled
// time with creation order breaking ties
func (s *MemoryStore) Due(_ context.Context, now time.Time) ([]*core.ScheduledMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*core.ScheduledMessage
	for _, id := range s.ordered {
		msg := s.byID[id]
		if msg.Status == core.StatusPending && !msg.ScheduledAt.After(now) {
			due = append(due, cloneMessage(msg))
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
	})
	return due, nil
}

// MarkSent transitions a pending record to sent
func (s *MemoryStore) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	return s.transition(id, core.StatusSent, func(msg *core.ScheduledMessage) {
		at := sentAt.UTC()
		msg.SentAt = &at
	})
}

// MarkFailed transitions a pending record to failed
func (s *MemoryStore) MarkFailed(_ context.Context, id string, reason string) error {
	return s.transition(id, core.StatusFailed, func(msg *core.ScheduledMessage) {
		msg.FailureReason = reason
	})
}

// Cancel transitions a pending record to cancelled
func (s *MemoryStore) Cancel(_ context.Context, id string) error {
	return s.transition(id, core.StatusCancelled, func(*core.ScheduledMessage) {})
}

// transition is the guarded check-then-set shared by all status changes.
func (s *MemoryStore) transition(id string, to core.Status, mutate func(*core.ScheduledMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	if msg.Status != core.StatusPending {
		if to == core.StatusCancelled {
			return core.ErrNotCancellable
		}
		return core.ErrInvalidTransition
	}

	msg.Status = to
	mutate(msg)
	return nil
}

func cloneMessage(msg *core.ScheduledMessage) *core.ScheduledMessage {
	clone := *msg
	clone.To = append([]string(nil), msg.To...)
	clone.Cc = append([]string(nil), msg.Cc...)
	clone.Attachments = append([]string(nil), msg.Attachments...)
	if msg.SentAt != nil {
		at := *msg.SentAt
		clone.SentAt = &at
	}
	return &clone
}
