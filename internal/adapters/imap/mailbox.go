package imap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// Mailbox is an IMAP implementation of the MailboxSource interface.
// Each call opens a fresh connection; message listing is an infrequent
// batch operation, not a hot path.
type Mailbox struct {
	addr       string
	username   string
	password   string
	useTLS     bool
	folder     string
	fetchLimit int
	logger     *zap.Logger
}

// NewMailbox creates a new IMAP mailbox source from the given configuration.
func NewMailbox(cfg *config.IMAPConfig, logger *zap.Logger) *Mailbox {
	return &Mailbox{
		addr:       cfg.Address,
		username:   cfg.Username,
		password:   cfg.Password,
		useTLS:     cfg.UseTLS,
		folder:     cfg.Folder,
		fetchLimit: cfg.FetchLimit,
		logger:     logger,
	}
}

func (m *Mailbox) connect() (*imapclient.Client, error) {
	var client *imapclient.Client
	var err error

	if m.useTLS {
		client, err = imapclient.DialTLS(m.addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(m.addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server %s: %w", m.addr, err)
	}

	if err := client.Login(m.username, m.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("IMAP authentication failed for %s: %w", m.username, err)
	}

	return client, nil
}

// ListMessages fetches the most recent messages in the given folder. An
// empty folder selects the configured default; a non-positive limit uses
// the configured fetch limit.
func (m *Mailbox) ListMessages(ctx context.Context, folder string, limit int) ([]*core.Message, error) {
	if folder == "" {
		folder = m.folder
	}
	if limit <= 0 {
		limit = m.fetchLimit
	}

	client, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	selectData, err := client.Select(folder, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}
	if selectData.NumMessages == 0 {
		return nil, nil
	}

	searchData, err := client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to search folder %s: %w", folder, err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})
	defer fetchCmd.Close()

	var messages []*core.Message
	for {
		fetched := fetchCmd.Next()
		if fetched == nil {
			break
		}

		buf, err := fetched.Collect()
		if err != nil {
			m.logger.Warn("Skipping unreadable message", zap.Error(err))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages = append(messages, m.messageFromBuffer(buf, bodySection, folder))
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("failed to fetch messages: %w", err)
	}

	m.logger.Debug("Listed mailbox messages",
		zap.String("folder", folder),
		zap.Int("count", len(messages)))

	return messages, nil
}

func (m *Mailbox) messageFromBuffer(buf *imapclient.FetchMessageBuffer, section *imap.FetchItemBodySection, folder string) *core.Message {
	msg := &core.Message{
		ID:     fmt.Sprintf("%d", buf.UID),
		Folder: folder,
	}

	if buf.Envelope != nil {
		if buf.Envelope.MessageID != "" {
			msg.ID = buf.Envelope.MessageID
		}
		msg.Subject = buf.Envelope.Subject
		msg.Date = buf.Envelope.Date.UTC()
		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			msg.From = from.Addr()
			msg.FromName = from.Name
		}
	}

	if raw := buf.FindBodySection(section); raw != nil {
		body, hasAttachment := extractBody(raw)
		msg.Body = body
		msg.HasAttachment = hasAttachment
	}

	return msg
}

// extractBody pulls the first text/plain part out of a raw MIME message
// and reports whether any part is an attachment.
func extractBody(raw []byte) (string, bool) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		// Not MIME; treat the payload as plain text.
		return string(raw), false
	}
	defer mr.Close()

	var body string
	var hasAttachment bool
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if body == "" && (contentType == "text/plain" || contentType == "") {
				data, err := io.ReadAll(part.Body)
				if err == nil {
					body = strings.TrimRight(string(data), "\r\n")
				}
			}
		case *mail.AttachmentHeader:
			hasAttachment = true
		}
	}

	return body, hasAttachment
}
