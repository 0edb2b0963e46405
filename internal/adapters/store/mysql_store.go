package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the ScheduleStore interface,
// for deployments where several daemons share one schedule database.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL using the given DSN and ensures the
// schema exists.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL server: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scheduled_messages (
			id VARCHAR(64) PRIMARY KEY,
			recipients TEXT NOT NULL,
			cc TEXT NOT NULL,
			subject TEXT NOT NULL,
			body MEDIUMTEXT NOT NULL,
			attachments TEXT NOT NULL,
			scheduled_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL,
			status VARCHAR(16) NOT NULL,
			sent_at BIGINT,
			failure_reason TEXT,
			seq BIGINT AUTO_INCREMENT,
			UNIQUE KEY idx_seq (seq),
			INDEX idx_status_scheduled_at (status, scheduled_at)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Connected to MySQL schedule store")

	return &MySQLStore{db: db, logger: logger}, nil
}

// Create persists a new record
func (s *MySQLStore) Create(ctx context.Context, msg *core.ScheduledMessage) error {
	recipients, err := encodeList(msg.To)
	if err != nil {
		return err
	}
	cc, err := encodeList(msg.Cc)
	if err != nil {
		return err
	}
	attachments, err := encodeList(msg.Attachments)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scheduled_messages
			(id, recipients, cc, subject, body, attachments,
			 scheduled_at, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, recipients, cc, msg.Subject, msg.Body, attachments,
		encodeTime(msg.ScheduledAt), encodeTime(msg.CreatedAt), string(msg.Status))
	if err != nil {
		return fmt.Errorf("failed to insert scheduled message: %w", err)
	}
	return nil
}

// Get returns the record with the given ID
func (s *MySQLStore) Get(ctx context.Context, id string) (*core.ScheduledMessage, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, recipients, cc, subject, body, attachments,
		       scheduled_at, created_at, status, sent_at, failure_reason
		FROM scheduled_messages
		WHERE id = ?
	`, id)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	return msg, err
}

// List returns all records in creation order, optionally filtered by status
func (s *MySQLStore) List(ctx context.Context, status core.Status) ([]*core.ScheduledMessage, error) {
	query := `
		SELECT id, recipients, cc, subject, body, attachments,
		       scheduled_at, created_at, status, sent_at, failure_reason
		FROM scheduled_messages
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY seq`

	return s.queryMessages(ctx, query, args...)
}

// Due returns pending records due at or before now, in due order
func (s *MySQLStore) Due(ctx context.Context, now time.Time) ([]*core.ScheduledMessage, error) {
	return s.queryMessages(ctx, `
		SELECT id, recipients, cc, subject, body, attachments,
		       scheduled_at, created_at, status, sent_at, failure_reason
		FROM scheduled_messages
		WHERE status = ? AND scheduled_at <= ?
		ORDER BY scheduled_at, seq
	`, string(core.StatusPending), encodeTime(now))
}

// MarkSent transitions a pending record to sent
func (s *MySQLStore) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return s.transition(ctx, id, core.StatusSent, `
		UPDATE scheduled_messages
		SET status = ?, sent_at = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusSent), encodeTime(sentAt), id, string(core.StatusPending))
}

// MarkFailed transitions a pending record to failed
func (s *MySQLStore) MarkFailed(ctx context.Context, id string, reason string) error {
	return s.transition(ctx, id, core.StatusFailed, `
		UPDATE scheduled_messages
		SET status = ?, failure_reason = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusFailed), reason, id, string(core.StatusPending))
}

// Cancel transitions a pending record to cancelled
func (s *MySQLStore) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, core.StatusCancelled, `
		UPDATE scheduled_messages
		SET status = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusCancelled), id, string(core.StatusPending))
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) transition(ctx context.Context, id string, to core.Status, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update scheduled message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	err = s.db.QueryRowContext(ctx, `
		SELECT status FROM scheduled_messages WHERE id = ?
	`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query scheduled message: %w", err)
	}

	if to == core.StatusCancelled {
		return core.ErrNotCancellable
	}
	return core.ErrInvalidTransition
}

func (s *MySQLStore) queryMessages(ctx context.Context, query string, args ...any) ([]*core.ScheduledMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled messages: %w", err)
	}
	defer rows.Close()

	var out []*core.ScheduledMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
