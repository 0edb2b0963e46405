package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// SpamConfig holds the signal weights and the classification threshold for
// the heuristic scorer. Every signal contributes a fixed positive weight
// when triggered; the contact discount is the only negative signal.
type SpamConfig struct {
	Keywords          []string
	KeywordWeight     float64
	KeywordCap        float64
	ShoutingThreshold float64
	ShoutingWeight    float64
	MaxExclamations   int
	PunctuationWeight float64
	SuspiciousWeight  float64
	ContactDiscount   float64
	Threshold         float64
}

// DefaultSpamConfig returns the stock keyword list and weights.
func DefaultSpamConfig() SpamConfig {
	return SpamConfig{
		Keywords: []string{
			"viagra", "casino", "lottery", "winner", "claim prize", "act now",
			"limited time", "click here", "unsubscribe", "free money",
		},
		KeywordWeight:     0.15,
		KeywordCap:        0.5,
		ShoutingThreshold: 0.5,
		ShoutingWeight:    0.2,
		MaxExclamations:   3,
		PunctuationWeight: 0.15,
		SuspiciousWeight:  0.1,
		ContactDiscount:   0.3,
		Threshold:         0.5,
	}
}

// suspiciousLocalParts match throwaway or mass-mail sender local parts.
var suspiciousLocalParts = []*regexp.Regexp{
	regexp.MustCompile(`noreply`),
	regexp.MustCompile(`no-reply`),
	regexp.MustCompile(`donotreply`),
	regexp.MustCompile(`\d{5,}`),
}

// SpamScorer computes spam likelihood for message snapshots. It is stateless
// apart from the injected counters and safe for concurrent use.
type SpamScorer struct {
	cfg      SpamConfig
	contacts ContactDirectory
	stats    *Stats
	logger   *zap.Logger
}

// NewSpamScorer creates a scorer. contacts may be nil, in which case the
// reputation discount never applies.
func NewSpamScorer(cfg SpamConfig, contacts ContactDirectory, stats *Stats, logger *zap.Logger) *SpamScorer {
	return &SpamScorer{
		cfg:      cfg,
		contacts: contacts,
		stats:    stats,
		logger:   logger,
	}
}

// Score computes the spam verdict for a single message. Missing fields are
// treated as empty strings; the function never fails.
func (s *SpamScorer) Score(msg *Message) SpamVerdict {
	subject := strings.ToLower(msg.Subject)
	body := strings.ToLower(msg.Body)
	sender := strings.ToLower(strings.TrimSpace(msg.From))

	score := 0.0
	var reasons []string

	text := subject + " " + body
	matches := 0
	for _, keyword := range s.cfg.Keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			matches++
		}
	}
	if matches > 0 {
		contribution := float64(matches) * s.cfg.KeywordWeight
		if contribution > s.cfg.KeywordCap {
			contribution = s.cfg.KeywordCap
		}
		score += contribution
		reasons = append(reasons, fmt.Sprintf("spam keywords (%d)", matches))
	}

	if shoutingRatio(msg.Subject) > s.cfg.ShoutingThreshold {
		score += s.cfg.ShoutingWeight
		reasons = append(reasons, "excessive caps")
	}

	if strings.Count(text, "!") > s.cfg.MaxExclamations {
		score += s.cfg.PunctuationWeight
		reasons = append(reasons, "excessive punctuation")
	}

	if s.isSuspiciousSender(sender, msg.FromName) {
		score += s.cfg.SuspiciousWeight
		reasons = append(reasons, "suspicious sender")
	}

	if sender != "" && s.contacts != nil && s.contacts.IsKnownContact(sender) {
		score -= s.cfg.ContactDiscount
		if score < 0 {
			score = 0
		}
		reasons = append(reasons, "known contact (-)")
	}

	if score > 1 {
		score = 1
	}

	reason := ""
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return SpamVerdict{
		IsSpam: score >= s.cfg.Threshold,
		Score:  score,
		Reason: reason,
	}
}

// FilterSpam partitions messages into clean and spam, preserving the
// relative order within each partition.
func (s *SpamScorer) FilterSpam(msgs []*Message) (clean, spam []*Message) {
	for _, msg := range msgs {
		verdict := s.Score(msg)
		if verdict.IsSpam {
			spam = append(spam, msg)
			if s.logger != nil {
				s.logger.Debug("Message classified as spam",
					zap.String("id", msg.ID),
					zap.Float64("score", verdict.Score),
					zap.String("reason", verdict.Reason))
			}
		} else {
			clean = append(clean, msg)
		}
	}

	if s.stats != nil {
		s.stats.AddScored(len(msgs))
		s.stats.AddSpamFiltered(len(spam))
	}

	return clean, spam
}

// isSuspiciousSender applies the throwaway-account heuristics to the
// sender's local part, plus a display-name/domain mismatch check.
func (s *SpamScorer) isSuspiciousSender(sender, displayName string) bool {
	if sender == "" {
		return false
	}

	local := sender
	domain := ""
	if at := strings.LastIndex(sender, "@"); at >= 0 {
		local = sender[:at]
		domain = sender[at+1:]
	}

	for _, pattern := range suspiciousLocalParts {
		if pattern.MatchString(local) {
			return true
		}
	}

	// A display name carrying an address from a different domain is a
	// common spoofing pattern.
	name := strings.ToLower(displayName)
	if domain != "" && strings.Contains(name, "@") && !strings.Contains(name, "@"+domain) {
		return true
	}

	return false
}

// shoutingRatio returns the share of uppercase letters among all letters in
// the subject. A subject with no letters has ratio 0.
func shoutingRatio(subject string) float64 {
	letters, upper := 0, 0
	for _, r := range subject {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
