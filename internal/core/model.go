package core

import (
	"time"
)

// Message is a read-only snapshot of a mailbox message. The core never
// mutates it; derived views (spam verdicts, threads) are computed on demand.
type Message struct {
	ID            string
	Subject       string
	Body          string
	From          string
	FromName      string
	Date          time.Time
	Folder        string
	HasAttachment bool
}

// Status is the lifecycle state of a scheduled message.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// ScheduledMessage is a persisted record describing a mail to be delivered
// at ScheduledAt. It is owned by the ScheduleStore: created on a schedule
// request, transitioned by the dispatcher sweep or an explicit cancel, and
// never deleted.
type ScheduledMessage struct {
	ID            string
	To            []string
	Cc            []string
	Subject       string
	Body          string
	Attachments   []string
	ScheduledAt   time.Time
	CreatedAt     time.Time
	Status        Status
	SentAt        *time.Time
	FailureReason string
}

// OutgoingMessage is the payload handed to the transport gateway.
type OutgoingMessage struct {
	To          []string
	Cc          []string
	Subject     string
	Body        string
	Attachments []string
}

// Outgoing derives the gateway payload for a scheduled message.
func (m *ScheduledMessage) Outgoing() *OutgoingMessage {
	return &OutgoingMessage{
		To:          m.To,
		Cc:          m.Cc,
		Subject:     m.Subject,
		Body:        m.Body,
		Attachments: m.Attachments,
	}
}

// SpamVerdict is the result of scoring a single message.
type SpamVerdict struct {
	IsSpam bool
	Score  float64
	Reason string
}
