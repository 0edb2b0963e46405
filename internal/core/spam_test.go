package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type staticContacts map[string]bool

func (c staticContacts) IsKnownContact(address string) bool {
	return c[address]
}

func newTestScorer(cfg SpamConfig, contacts ContactDirectory) *SpamScorer {
	return NewSpamScorer(cfg, contacts, NewStats(), zap.NewNop())
}

func TestSpamScorer_CleanMessage(t *testing.T) {
	scorer := newTestScorer(DefaultSpamConfig(), nil)

	verdict := scorer.Score(&Message{
		Subject: "Lunch on Friday?",
		Body:    "Does 12:30 work for you?",
		From:    "alice@example.com",
	})

	assert.False(t, verdict.IsSpam)
	assert.Zero(t, verdict.Score)
	assert.Empty(t, verdict.Reason)
}

func TestSpamScorer_KeywordAndShoutingSignals(t *testing.T) {
	scorer := newTestScorer(DefaultSpamConfig(), nil)

	verdict := scorer.Score(&Message{
		Subject: "ACT NOW WINNER",
		Body:    "Click here to claim prize from our casino lottery!",
		From:    "promo@offers.example",
	})

	assert.True(t, verdict.IsSpam)
	assert.GreaterOrEqual(t, verdict.Score, 0.5)
	assert.LessOrEqual(t, verdict.Score, 1.0)
	assert.Contains(t, verdict.Reason, "spam keywords")
	assert.Contains(t, verdict.Reason, "excessive caps")
}

func TestSpamScorer_ScoreClampedAtOne(t *testing.T) {
	cfg := DefaultSpamConfig()
	cfg.KeywordWeight = 0.4
	cfg.KeywordCap = 0.9
	cfg.ShoutingWeight = 0.5
	scorer := newTestScorer(cfg, nil)

	verdict := scorer.Score(&Message{
		Subject: "WINNER! ACT NOW! FREE MONEY!!!!",
		Body:    "click here to claim prize",
		From:    "win12345678@lotto.example",
	})

	assert.True(t, verdict.IsSpam)
	assert.Equal(t, 1.0, verdict.Score)
}

func TestSpamScorer_ExcessivePunctuation(t *testing.T) {
	scorer := newTestScorer(DefaultSpamConfig(), nil)

	verdict := scorer.Score(&Message{
		Subject: "hello",
		Body:    "wow!!!! amazing!!!",
		From:    "bob@example.com",
	})

	assert.InDelta(t, 0.15, verdict.Score, 1e-9)
	assert.Equal(t, "excessive punctuation", verdict.Reason)
}

func TestSpamScorer_SuspiciousSender(t *testing.T) {
	scorer := newTestScorer(DefaultSpamConfig(), nil)

	for _, from := range []string{
		"noreply@shop.example",
		"no-reply@shop.example",
		"donotreply@shop.example",
		"user9283745@mail.example",
	} {
		verdict := scorer.Score(&Message{From: from})
		assert.Equal(t, "suspicious sender", verdict.Reason, "sender %q", from)
	}

	// Display name advertising a different domain.
	verdict := scorer.Score(&Message{
		From:     "alice@evil.example",
		FromName: "support@bank.example",
	})
	assert.Equal(t, "suspicious sender", verdict.Reason)
}

func TestSpamScorer_KnownContactDiscount(t *testing.T) {
	contacts := staticContacts{"alice@example.com": true}
	scorer := newTestScorer(DefaultSpamConfig(), contacts)

	spammy := &Message{
		Subject: "limited time offer",
		Body:    "act now",
		From:    "stranger@example.com",
	}
	fromContact := &Message{
		Subject: spammy.Subject,
		Body:    spammy.Body,
		From:    "alice@example.com",
	}

	unknown := scorer.Score(spammy)
	known := scorer.Score(fromContact)

	assert.InDelta(t, unknown.Score-0.3, known.Score, 1e-9)
	assert.Contains(t, known.Reason, "known contact (-)")
}

func TestSpamScorer_DiscountFlooredAtZero(t *testing.T) {
	contacts := staticContacts{"alice@example.com": true}
	scorer := newTestScorer(DefaultSpamConfig(), contacts)

	verdict := scorer.Score(&Message{
		Subject: "act now",
		Body:    "",
		From:    "alice@example.com",
	})

	assert.Zero(t, verdict.Score)
	assert.False(t, verdict.IsSpam)
}

func TestSpamScorer_MissingFields(t *testing.T) {
	scorer := newTestScorer(DefaultSpamConfig(), staticContacts{})

	verdict := scorer.Score(&Message{})

	assert.False(t, verdict.IsSpam)
	assert.Zero(t, verdict.Score)
	assert.Empty(t, verdict.Reason)
}

func TestFilterSpam_PreservesOrder(t *testing.T) {
	stats := NewStats()
	scorer := NewSpamScorer(DefaultSpamConfig(), nil, stats, zap.NewNop())

	msgs := []*Message{
		{ID: "1", Subject: "Team sync notes"},
		{ID: "2", Subject: "WINNER!!!", Body: "claim prize free money act now click here"},
		{ID: "3", Subject: "Invoice attached"},
		{ID: "4", Subject: "FREE MONEY", Body: "casino lottery winner, limited time, act now"},
	}

	clean, spam := scorer.FilterSpam(msgs)

	assert.Equal(t, []string{"1", "3"}, ids(clean))
	assert.Equal(t, []string{"2", "4"}, ids(spam))

	snap := stats.Snapshot()
	assert.Equal(t, uint64(4), snap.Scored)
	assert.Equal(t, uint64(2), snap.SpamFiltered)
}

func ids(msgs []*Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}
