package factory

import (
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/contacts"
	"github.com/mikey/orbit-mail/internal/core"
	"go.uber.org/zap"
)

// SpamFactory creates the spam scorer and its contact directory
type SpamFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSpamFactory creates a new spam factory
func NewSpamFactory(cfg *config.Config, logger *zap.Logger) *SpamFactory {
	return &SpamFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateContactDirectory creates the contact directory, merging the
// configured address list with the optional address book file.
func (f *SpamFactory) CreateContactDirectory() (core.ContactDirectory, error) {
	addresses := f.cfg.GetStringSlice("contacts.addresses")
	file := f.cfg.GetString("contacts.file")

	if file != "" {
		return contacts.NewDirectoryFromFile(file, addresses, f.logger)
	}
	return contacts.NewDirectory(addresses, f.logger), nil
}

// CreateSpamScorer creates a spam scorer from the configured weights.
// Unset keys keep the stock defaults; a configured keyword list replaces
// the stock one entirely.
func (f *SpamFactory) CreateSpamScorer(directory core.ContactDirectory, stats *core.Stats) *core.SpamScorer {
	spamCfg := core.DefaultSpamConfig()

	if keywords := f.cfg.GetStringSlice("spam.keywords"); len(keywords) > 0 {
		spamCfg.Keywords = keywords
	}
	spamCfg.KeywordWeight = f.cfg.GetFloat64("spam.keyword_weight")
	spamCfg.KeywordCap = f.cfg.GetFloat64("spam.keyword_cap")
	spamCfg.ShoutingThreshold = f.cfg.GetFloat64("spam.shouting_threshold")
	spamCfg.ShoutingWeight = f.cfg.GetFloat64("spam.shouting_weight")
	spamCfg.MaxExclamations = f.cfg.GetInt("spam.max_exclamations")
	spamCfg.PunctuationWeight = f.cfg.GetFloat64("spam.punctuation_weight")
	spamCfg.SuspiciousWeight = f.cfg.GetFloat64("spam.suspicious_weight")
	spamCfg.ContactDiscount = f.cfg.GetFloat64("spam.contact_discount")
	spamCfg.Threshold = f.cfg.GetFloat64("spam.threshold")

	return core.NewSpamScorer(spamCfg, directory, stats, f.logger)
}
