package smtp

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway() *Gateway {
	return NewGateway(&config.SMTPConfig{
		Address: "localhost:2525",
		From:    "daemon@example.com",
	}, zap.NewNop())
}

func TestComposePlainMessage(t *testing.T) {
	g := newTestGateway()

	raw, err := g.compose(&core.OutgoingMessage{
		To:      []string{"alice@example.com"},
		Cc:      []string{"bob@example.com"},
		Subject: "Status update",
		Body:    "All systems nominal.",
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Status update", subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "alice@example.com", to[0].Address)

	cc, err := mr.Header.AddressList("Cc")
	require.NoError(t, err)
	require.Len(t, cc, 1)
	assert.Equal(t, "bob@example.com", cc[0].Address)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Equal(t, "All systems nominal.", string(body))
}

func TestComposeWithAttachment(t *testing.T) {
	g := newTestGateway()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("meeting notes"), 0o644))

	raw, err := g.compose(&core.OutgoingMessage{
		To:          []string{"alice@example.com"},
		Subject:     "Notes attached",
		Body:        "See attachment.",
		Attachments: []string{path},
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	var sawBody, sawAttachment bool
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			data, err := io.ReadAll(part.Body)
			require.NoError(t, err)
			assert.Equal(t, "See attachment.", string(data))
			sawBody = true
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			require.NoError(t, err)
			assert.Equal(t, "notes.txt", name)
			data, err := io.ReadAll(part.Body)
			require.NoError(t, err)
			assert.Equal(t, "meeting notes", string(data))
			sawAttachment = true
		}
	}

	assert.True(t, sawBody)
	assert.True(t, sawAttachment)
}

func TestComposeMissingAttachment(t *testing.T) {
	g := newTestGateway()

	_, err := g.compose(&core.OutgoingMessage{
		To:          []string{"alice@example.com"},
		Subject:     "Broken",
		Body:        "x",
		Attachments: []string{"/nonexistent/file.bin"},
	})
	assert.Error(t, err)
}

func TestSendRequiresRecipients(t *testing.T) {
	g := newTestGateway()

	err := g.Send(context.Background(), &core.OutgoingMessage{Subject: "empty"})
	assert.Error(t, err)
}
