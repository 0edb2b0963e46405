package imap

import (
	"bytes"
	"io"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMIME(t *testing.T, body string, attachmentName string) []byte {
	t.Helper()

	var h mail.Header
	h.SetSubject("test")
	h.SetAddressList("From", []*mail.Address{{Address: "sender@example.com"}})

	var buf bytes.Buffer

	if attachmentName == "" {
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	}

	mw, err := mail.CreateWriter(&buf, h)
	require.NoError(t, err)

	tw, err := mw.CreateInline()
	require.NoError(t, err)
	var th mail.InlineHeader
	bw, err := tw.CreatePart(th)
	require.NoError(t, err)
	_, err = io.WriteString(bw, body)
	require.NoError(t, err)
	bw.Close()
	tw.Close()

	var ah mail.AttachmentHeader
	ah.SetFilename(attachmentName)
	aw, err := mw.CreateAttachment(ah)
	require.NoError(t, err)
	_, err = io.WriteString(aw, "payload")
	require.NoError(t, err)
	aw.Close()

	require.NoError(t, mw.Close())
	return buf.Bytes()
}

func TestExtractBodyPlain(t *testing.T) {
	raw := buildMIME(t, "Hello, world.", "")

	body, hasAttachment := extractBody(raw)
	assert.Equal(t, "Hello, world.", body)
	assert.False(t, hasAttachment)
}

func TestExtractBodyWithAttachment(t *testing.T) {
	raw := buildMIME(t, "See the attached file.", "report.pdf")

	body, hasAttachment := extractBody(raw)
	assert.Equal(t, "See the attached file.", body)
	assert.True(t, hasAttachment)
}

func TestExtractBodyNonMIME(t *testing.T) {
	body, hasAttachment := extractBody([]byte("just raw text"))
	assert.Equal(t, "just raw text", body)
	assert.False(t, hasAttachment)
}
