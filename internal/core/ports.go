package core

import (
	"context"
	"time"
)

// TransportGateway delivers a composed message. It is supplied by the
// email-transport layer; the dispatcher treats a non-nil error as a
// per-record delivery failure.
type TransportGateway interface {
	// Send delivers msg, blocking until the transport accepts or rejects it.
	Send(ctx context.Context, msg *OutgoingMessage) error
}

// MailboxSource lists message snapshots from a mailbox folder. It feeds the
// spam scorer and the thread grouper.
type MailboxSource interface {
	// ListMessages returns up to limit messages from folder, newest last.
	ListMessages(ctx context.Context, folder string, limit int) ([]*Message, error)
}

// ContactDirectory answers reputation lookups for the spam scorer.
type ContactDirectory interface {
	// IsKnownContact reports whether address belongs to a known contact.
	IsKnownContact(address string) bool
}

// ScheduleStore is the durable log of scheduled messages. Records are never
// deleted; they only transition out of StatusPending. Every transition
// method is a guarded check-then-set: a record not currently pending is
// left untouched and the call fails with ErrInvalidTransition (or
// ErrNotCancellable for Cancel).
type ScheduleStore interface {
	// Create persists a new record. The record's ID must be unset in the
	// store; CreatedAt and Status must already be populated.
	Create(ctx context.Context, msg *ScheduledMessage) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*ScheduledMessage, error)

	// List returns all records, optionally filtered by status. An empty
	// status returns everything, in creation order.
	List(ctx context.Context, status Status) ([]*ScheduledMessage, error)

	// Due returns pending records with ScheduledAt <= now, ordered by
	// ScheduledAt ascending with creation order breaking ties.
	Due(ctx context.Context, now time.Time) ([]*ScheduledMessage, error)

	// MarkSent transitions a pending record to StatusSent.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkFailed transitions a pending record to StatusFailed with the
	// captured delivery failure reason.
	MarkFailed(ctx context.Context, id string, reason string) error

	// Cancel transitions a pending record to StatusCancelled.
	Cancel(ctx context.Context, id string) error
}

// TextGenerator produces free-form text from a prompt. Implemented by the
// LLM provider adapters and consumed by the assisted variant of the
// assistant capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Assistant is the summarization/drafting capability. Both variants
// (rule-based and LLM-assisted) satisfy it, so callers never branch on
// whether an LLM is configured.
type Assistant interface {
	// SummarizeMessage produces a short summary of a message.
	SummarizeMessage(ctx context.Context, msg *Message) (string, error)

	// DraftReply drafts a reply to msg in the given tone.
	DraftReply(ctx context.Context, msg *Message, tone string) (string, error)

	// ExtractActionItems lists concrete tasks or requests found in msg.
	ExtractActionItems(ctx context.Context, msg *Message) ([]string, error)
}
