package factory

import (
	"fmt"

	"github.com/mikey/orbit-mail/internal/adapters/imap"
	"github.com/mikey/orbit-mail/internal/adapters/smtp"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// TransportFactory creates the outbound gateway and the mailbox source
type TransportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(cfg *config.Config, logger *zap.Logger) *TransportFactory {
	return &TransportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTransportGateway creates the SMTP delivery gateway
func (f *TransportFactory) CreateTransportGateway() (core.TransportGateway, error) {
	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.From == "" {
		return nil, fmt.Errorf("smtp.from must be configured")
	}
	return smtp.NewGateway(&smtpCfg, f.logger), nil
}

// CreateMailboxSource creates the IMAP mailbox source
func (f *TransportFactory) CreateMailboxSource() core.MailboxSource {
	imapCfg := f.cfg.GetIMAP()
	return imap.NewMailbox(&imapCfg, f.logger)
}
