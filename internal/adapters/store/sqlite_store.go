package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the ScheduleStore interface.
// Every write is a transaction, so the schedule log survives restarts and
// concurrent writers cannot corrupt it. A store that cannot be opened or
// whose contents cannot be read is reported as an error at construction;
// startup must fail rather than silently discard schedule history.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

const schema = `
	CREATE TABLE IF NOT EXISTS scheduled_messages (
		id TEXT PRIMARY KEY,
		recipients TEXT NOT NULL,
		cc TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		attachments TEXT NOT NULL,
		scheduled_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		sent_at INTEGER,
		failure_reason TEXT,
		seq INTEGER
	)
`

// NewSQLiteStore opens (or creates) the schedule database at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_status_scheduled_at
		ON scheduled_messages(status, scheduled_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	// Verify the persisted state is readable before accepting traffic.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM scheduled_messages`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read persisted schedule state: %w", err)
	}

	logger.Info("Opened schedule store",
		zap.String("path", dbPath),
		zap.Int("records", count))

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Create persists a new record
func (s *SQLiteStore) Create(ctx context.Context, msg *core.ScheduledMessage) error {
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
			 scheduled_at, created_at, status, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM scheduled_messages))
	`, msg.ID, recipients, cc, msg.Subject, msg.Body, attachments,
		encodeTime(msg.ScheduledAt), encodeTime(msg.CreatedAt), string(msg.Status))
	if err != nil {
		return fmt.Errorf("failed to insert scheduled message: %w", err)
	}
	return nil
}

// Get returns the record with the given ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.ScheduledMessage, error) {
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
func (s *SQLiteStore) List(ctx context.Context, status core.Status) ([]*core.ScheduledMessage, error) {
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
func (s *SQLiteStore) Due(ctx context.Context, now time.Time) ([]*core.ScheduledMessage, error) {
	return s.queryMessages(ctx, `
		SELECT id, recipients, cc, subject, body, attachments,
		       scheduled_at, created_at, status, sent_at, failure_reason
		FROM scheduled_messages
		WHERE status = ? AND scheduled_at <= ?
		ORDER BY scheduled_at, seq
	`, string(core.StatusPending), encodeTime(now))
}

// MarkSent transitions a pending record to sent
func (s *SQLiteStore) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return s.transition(ctx, id, core.StatusSent, `
		UPDATE scheduled_messages
		SET status = ?, sent_at = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusSent), encodeTime(sentAt), id, string(core.StatusPending))
}

// MarkFailed transitions a pending record to failed
func (s *SQLiteStore) MarkFailed(ctx context.Context, id string, reason string) error {
	return s.transition(ctx, id, core.StatusFailed, `
		UPDATE scheduled_messages
		SET status = ?, failure_reason = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusFailed), reason, id, string(core.StatusPending))
}

// Cancel transitions a pending record to cancelled
func (s *SQLiteStore) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, core.StatusCancelled, `
		UPDATE scheduled_messages
		SET status = ?
		WHERE id = ? AND status = ?
	`, string(core.StatusCancelled), id, string(core.StatusPending))
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// transition runs a guarded check-then-set update: the WHERE clause only
// matches pending records, so a terminal record is left untouched.
func (s *SQLiteStore) transition(ctx context.Context, id string, to core.Status, query string, args ...any) error {
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

	// Distinguish a missing record from a terminal one.
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

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...any) ([]*core.ScheduledMessage, error) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*core.ScheduledMessage, error) {
	var (
		msg                    core.ScheduledMessage
		recipients, cc, attach string
		scheduledAt, createdAt int64
		status                 string
		sentAt                 sql.NullInt64
		failureReason          sql.NullString
	)

	err := row.Scan(&msg.ID, &recipients, &cc, &msg.Subject, &msg.Body, &attach,
		&scheduledAt, &createdAt, &status, &sentAt, &failureReason)
	if err != nil {
		return nil, err
	}

	if msg.To, err = decodeList(recipients); err != nil {
		return nil, err
	}
	if msg.Cc, err = decodeList(cc); err != nil {
		return nil, err
	}
	if msg.Attachments, err = decodeList(attach); err != nil {
		return nil, err
	}
	msg.ScheduledAt = decodeTime(scheduledAt)
	msg.CreatedAt = decodeTime(createdAt)

	msg.Status = core.Status(status)
	if sentAt.Valid {
		at := decodeTime(sentAt.Int64)
		msg.SentAt = &at
	}
	if failureReason.Valid {
		msg.FailureReason = failureReason.String
	}

	return &msg, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to decode persisted list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// Timestamps are persisted as Unix nanoseconds so that SQL comparison and
// ordering of scheduled_at agree with chronological order. Textual formats
// with variable-width fractional seconds do not sort correctly.
func encodeTime(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func decodeTime(value int64) time.Time {
	return time.Unix(0, value).UTC()
}
