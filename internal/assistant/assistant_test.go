package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	out string
	err error
}

func (g *stubGenerator) Generate(context.Context, string, int) (string, error) {
	return g.out, g.err
}

func newAssisted(g core.TextGenerator) *Assisted {
	logger := zap.NewNop()
	return NewAssisted(g, textutil.NewTextProcessor(logger), 4096, 300, logger)
}

func TestRuleBased_SummarizeMessage(t *testing.T) {
	a := NewRuleBased()

	summary, err := a.SummarizeMessage(context.Background(), &core.Message{
		From:    "alice@example.com",
		Subject: "Quarterly report",
		Body:    "The quarterly numbers are attached for review. Revenue grew by twelve percent. ok. Let me know questions.",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "From alice@example.com - Quarterly report:"))
	assert.Contains(t, summary, "quarterly numbers")
	assert.NotContains(t, summary, "ok.")
}

func TestRuleBased_SummarizeMessage_MissingFields(t *testing.T) {
	a := NewRuleBased()

	summary, err := a.SummarizeMessage(context.Background(), &core.Message{})
	require.NoError(t, err)
	assert.Equal(t, "From Unknown - No Subject: ", summary)
}

func TestRuleBased_DraftReply(t *testing.T) {
	a := NewRuleBased()

	draft, err := a.DraftReply(context.Background(), &core.Message{
		FromName: "Bob",
		Subject:  "Re: Standup notes",
	}, "casual")
	require.NoError(t, err)
	assert.Contains(t, draft, "Hello Bob,")
	assert.Contains(t, draft, "Thanks for reaching out!")
	assert.Contains(t, draft, "Regarding: Standup notes")

	// Unknown tone degrades to professional.
	draft, err = a.DraftReply(context.Background(), &core.Message{}, "sarcastic")
	require.NoError(t, err)
	assert.Contains(t, draft, "Thank you for your email.")
}

func TestRuleBased_ExtractActionItems(t *testing.T) {
	a := NewRuleBased()

	items, err := a.ExtractActionItems(context.Background(), &core.Message{
		Body: "Hi team,\nPlease review the attached draft.\nWeather is nice.\nCan you send the final version by Friday?\nCheers",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Please review the attached draft.",
		"Can you send the final version by Friday?",
	}, items)
}

func TestAssisted_UsesGeneratorOutput(t *testing.T) {
	a := newAssisted(&stubGenerator{out: "  A crisp summary.  "})

	summary, err := a.SummarizeMessage(context.Background(), &core.Message{Body: "whatever"})
	require.NoError(t, err)
	assert.Equal(t, "A crisp summary.", summary)
}

func TestAssisted_FallsBackOnError(t *testing.T) {
	a := newAssisted(&stubGenerator{err: errors.New("model unavailable")})

	msg := &core.Message{
		From:    "alice@example.com",
		Subject: "Plans",
		Body:    "We should finalize the itinerary before the weekend arrives.",
	}

	summary, err := a.SummarizeMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "From alice@example.com - Plans:"))

	draft, err := a.DraftReply(context.Background(), msg, "")
	require.NoError(t, err)
	assert.Contains(t, draft, "Thank you for your email.")
}

func TestAssisted_FallsBackOnEmptyOutput(t *testing.T) {
	a := newAssisted(&stubGenerator{out: "   \n"})

	summary, err := a.SummarizeMessage(context.Background(), &core.Message{
		From: "bob@example.com",
		Body: "A sentence long enough to be picked up by the extractor.",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(summary, "From bob@example.com"))
}

func TestAssisted_ActionItemsParsing(t *testing.T) {
	a := newAssisted(&stubGenerator{out: "- Review the budget proposal\nok\n- Send the signed contract back\n"})

	items, err := a.ExtractActionItems(context.Background(), &core.Message{Body: "..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"- Review the budget proposal",
		"- Send the signed contract back",
	}, items)
}
