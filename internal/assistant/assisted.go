package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/textutil"
	"go.uber.org/zap"
)

const (
	summarizePrompt = `Summarize this email in 1-2 concise sentences:

From: %s
Subject: %s

%s

Summary:`

	draftReplyPrompt = `Draft a %s reply to this email:

From: %s
Subject: %s

%s

Draft reply:`

	actionItemsPrompt = `Extract action items from this email. List only specific tasks or requests:

%s

Action items (one per line):`
)

// Assisted is the LLM-backed assistant variant. Every operation degrades to
// the rule-based variant when the generator errors or returns nothing, so
// callers never observe the difference.
type Assisted struct {
	generator     core.TextGenerator
	fallback      *RuleBased
	textProcessor *textutil.TextProcessor
	maxBodySize   int
	maxTokens     int
	logger        *zap.Logger
}

// NewAssisted creates an LLM-assisted assistant over the given generator.
func NewAssisted(
	generator core.TextGenerator,
	textProcessor *textutil.TextProcessor,
	maxBodySize int,
	maxTokens int,
	logger *zap.Logger,
) *Assisted {
	return &Assisted{
		generator:     generator,
		fallback:      NewRuleBased(),
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
		maxTokens:     maxTokens,
		logger:        logger,
	}
}

// Close releases the underlying generator's resources, if any.
func (a *Assisted) Close() error {
	if closer, ok := a.generator.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// SummarizeMessage asks the generator for a summary, falling back to the
// extractive one on failure.
func (a *Assisted) SummarizeMessage(ctx context.Context, msg *core.Message) (string, error) {
	body := a.textProcessor.ProcessText(msg.Body, a.maxBodySize)
	prompt := fmt.Sprintf(summarizePrompt, msg.From, msg.Subject, body)

	out, err := a.generator.Generate(ctx, prompt, 100)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			a.logger.Warn("Assisted summarization failed, using fallback", zap.Error(err))
		}
		return a.fallback.SummarizeMessage(ctx, msg)
	}

	return strings.TrimSpace(out), nil
}

// DraftReply asks the generator for a reply draft in the given tone.
func (a *Assisted) DraftReply(ctx context.Context, msg *core.Message, tone string) (string, error) {
	if tone == "" {
		tone = "professional"
	}
	body := a.textProcessor.ProcessText(msg.Body, a.maxBodySize)
	prompt := fmt.Sprintf(draftReplyPrompt, tone, msg.From, msg.Subject, body)

	out, err := a.generator.Generate(ctx, prompt, a.maxTokens)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			a.logger.Warn("Assisted reply drafting failed, using fallback", zap.Error(err))
		}
		return a.fallback.DraftReply(ctx, msg, tone)
	}

	return strings.TrimSpace(out), nil
}

// ExtractActionItems asks the generator for action items, keeping lines of
// substance and capping the list at five.
func (a *Assisted) ExtractActionItems(ctx context.Context, msg *core.Message) ([]string, error) {
	body := a.textProcessor.ProcessText(msg.Body, a.maxBodySize)
	prompt := fmt.Sprintf(actionItemsPrompt, body)

	out, err := a.generator.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		a.logger.Warn("Assisted action extraction failed, using fallback", zap.Error(err))
		return a.fallback.ExtractActionItems(ctx, msg)
	}

	var items []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 10 {
			items = append(items, line)
		}
		if len(items) == 5 {
			break
		}
	}
	if len(items) == 0 {
		return a.fallback.ExtractActionItems(ctx, msg)
	}

	return items, nil
}
