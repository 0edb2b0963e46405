package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleRequest describes a deferred delivery. SendAt is a schedule
// expression (absolute literal or relative duration).
type ScheduleRequest struct {
	To          []string
	Cc          []string
	Subject     string
	Body        string
	Attachments []string
	SendAt      string
}

// TickResult summarizes one sweep over the due records.
type TickResult struct {
	Due    int
	Sent   int
	Failed int
}

// Dispatcher owns the deferred-delivery lifecycle: it creates pending
// records and periodically promotes due ones to the transport gateway.
// Tick and Cancel share one mutex so a sweep and a cancellation can never
// race on the same record.
type Dispatcher struct {
	store    ScheduleStore
	gateway  TransportGateway
	stats    *Stats
	logger   *zap.Logger
	interval time.Duration

	mu     sync.Mutex
	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDispatcher creates a dispatcher sweeping every interval once started.
func NewDispatcher(
	store ScheduleStore,
	gateway TransportGateway,
	stats *Stats,
	logger *zap.Logger,
	interval time.Duration,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		gateway:  gateway,
		stats:    stats,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Schedule resolves the request's send-at expression, persists a new pending
// record and returns it. Nothing is persisted when the expression is
// invalid.
func (d *Dispatcher) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduledMessage, error) {
	sendAt, err := ResolveScheduleTime(req.SendAt, d.now())
	if err != nil {
		return nil, err
	}

	msg := &ScheduledMessage{
		ID:          uuid.NewString(),
		To:          req.To,
		Cc:          req.Cc,
		Subject:     req.Subject,
		Body:        req.Body,
		Attachments: req.Attachments,
		ScheduledAt: sendAt,
		CreatedAt:   d.now().UTC(),
		Status:      StatusPending,
	}

	if err := d.store.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to persist scheduled message: %w", err)
	}

	d.stats.AddScheduled()
	d.logger.Info("Scheduled message",
		zap.String("id", msg.ID),
		zap.Strings("to", msg.To),
		zap.Time("send_at", msg.ScheduledAt))

	return msg, nil
}

// Cancel transitions a pending record to cancelled. A record that already
// reached a terminal state fails with ErrNotCancellable.
func (d *Dispatcher) Cancel(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Cancel(ctx, id); err != nil {
		return err
	}

	d.stats.AddCancelled()
	d.logger.Info("Cancelled scheduled message", zap.String("id", id))
	return nil
}

// List returns scheduled records, optionally filtered by status.
func (d *Dispatcher) List(ctx context.Context, status Status) ([]*ScheduledMessage, error) {
	return d.store.List(ctx, status)
}

// Tick performs one sweep: every pending record whose due time has passed is
// handed to the gateway in due order, then transitioned to its terminal
// status. A delivery failure is recorded on its own record and does not
// abort the sweep. Sweeps are serialized; a second Tick with no new
// scheduling in between is a no-op.
func (d *Dispatcher) Tick(ctx context.Context) (TickResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now().UTC()
	due, err := d.store.Due(ctx, now)
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to list due messages: %w", err)
	}

	result := TickResult{Due: len(due)}
	for _, msg := range due {
		if err := d.gateway.Send(ctx, msg.Outgoing()); err != nil {
			result.Failed++
			d.stats.AddSendFailure()
			d.logger.Warn("Scheduled delivery failed",
				zap.String("id", msg.ID),
				zap.Error(err))

			if err := d.store.MarkFailed(ctx, msg.ID, err.Error()); err != nil {
				d.logger.Error("Failed to record delivery failure",
					zap.String("id", msg.ID),
					zap.Error(err))
			}
			continue
		}

		result.Sent++
		d.stats.AddSent()
		// If the write-back fails the record stays pending and the next
		// sweep delivers it again: delivery is at-least-once when the
		// store errors between Send and MarkSent.
		if err := d.store.MarkSent(ctx, msg.ID, d.now().UTC()); err != nil {
			d.logger.Error("Failed to record delivery",
				zap.String("id", msg.ID),
				zap.Error(err))
			continue
		}
		d.logger.Info("Sent scheduled message", zap.String("id", msg.ID))
	}

	return result, nil
}

// Start launches the periodic sweep loop.
func (d *Dispatcher) Start() {
	go d.run()
	d.logger.Info("Dispatcher started", zap.Duration("interval", d.interval))
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
	d.logger.Info("Dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := d.Tick(context.Background()); err != nil {
				d.logger.Error("Sweep failed", zap.Error(err))
			}
		case <-d.stopCh:
			return
		}
	}
}
