package smtp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// Gateway delivers outgoing messages over SMTP. Delivery is synchronous:
// Send returns only after the upstream server has accepted the message,
// so the caller can record the outcome truthfully.
type Gateway struct {
	addr   string
	from   string
	useTLS bool
	auth   sasl.Client
	logger *zap.Logger
}

// NewGateway creates a new SMTP gateway from the given configuration.
func NewGateway(cfg *config.SMTPConfig, logger *zap.Logger) *Gateway {
	var auth sasl.Client
	if cfg.Username != "" {
		auth = sasl.NewPlainClient("", cfg.Username, cfg.Password)
	}

	return &Gateway{
		addr:   cfg.Address,
		from:   cfg.From,
		useTLS: cfg.UseTLS,
		auth:   auth,
		logger: logger,
	}
}

// Send composes a MIME message and submits it to the configured server.
func (g *Gateway) Send(ctx context.Context, msg *core.OutgoingMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("outgoing message has no recipients")
	}

	body, err := g.compose(msg)
	if err != nil {
		return fmt.Errorf("failed to compose message: %w", err)
	}

	recipients := make([]string, 0, len(msg.To)+len(msg.Cc))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.Cc...)

	if err := ctx.Err(); err != nil {
		return err
	}
	send := smtp.SendMail
	if g.useTLS {
		send = smtp.SendMailTLS
	}
	if err := send(g.addr, g.auth, g.from, recipients, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	g.logger.Info("Delivered message",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))

	return nil
}

func (g *Gateway) compose(msg *core.OutgoingMessage) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: g.from}})
	h.SetAddressList("To", parseAddresses(msg.To))
	if len(msg.Cc) > 0 {
		h.SetAddressList("Cc", parseAddresses(msg.Cc))
	}
	h.SetSubject(msg.Subject)

	var buf bytes.Buffer

	if len(msg.Attachments) == 0 {
		w, err := mail.CreateSingleInlineWriter(&buf, h)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, msg.Body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	var th mail.InlineHeader
	bw, err := tw.CreatePart(th)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(bw, msg.Body); err != nil {
		return nil, err
	}
	bw.Close()
	tw.Close()

	for _, path := range msg.Attachments {
		if err := attach(mw, path); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", path, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func attach(mw *mail.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var ah mail.AttachmentHeader
	ah.SetFilename(filepath.Base(path))

	aw, err := mw.CreateAttachment(ah)
	if err != nil {
		return err
	}
	defer aw.Close()

	_, err = io.Copy(aw, f)
	return err
}

func parseAddresses(addrs []string) []*mail.Address {
	out := make([]*mail.Address, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, &mail.Address{Address: a})
	}
	return out
}
