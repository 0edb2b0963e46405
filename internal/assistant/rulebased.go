package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/orbit-mail/internal/core"
)

// actionKeywords mark lines that likely carry a task or request.
var actionKeywords = []string{
	"please", "could you", "can you", "need you to", "action required",
	"todo", "to-do", "task", "deadline", "by ", "complete", "submit",
	"review", "check", "update", "send",
}

// replyTemplates are the canned openings per tone.
var replyTemplates = map[string]string{
	"professional": "Thank you for your email. I will review it and get back to you shortly.",
	"casual":       "Thanks for reaching out! I'll take a look and get back to you soon.",
	"friendly":     "Great to hear from you! Let me look into this and follow up soon.",
}

// RuleBased is the deterministic assistant variant: extractive
// summarization, keyword-driven action items and template replies. It never
// fails.
type RuleBased struct{}

// NewRuleBased creates the deterministic assistant.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// SummarizeMessage builds an extractive summary from the first substantial
// sentences of the body.
func (a *RuleBased) SummarizeMessage(_ context.Context, msg *core.Message) (string, error) {
	subject := msg.Subject
	if subject == "" {
		subject = "No Subject"
	}
	sender := msg.From
	if sender == "" {
		sender = "Unknown"
	}

	sentences := strings.Split(strings.ReplaceAll(msg.Body, "\n", " "), ". ")
	var picked []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			picked = append(picked, s)
		}
		if len(picked) == 2 {
			break
		}
	}

	summary := strings.Join(picked, ". ")
	if len(summary) > 150 {
		summary = summary[:150] + "..."
	}

	return fmt.Sprintf("From %s - %s: %s", sender, subject, summary), nil
}

// DraftReply returns a template reply in the requested tone, quoting the
// original subject. Unknown tones fall back to professional.
func (a *RuleBased) DraftReply(_ context.Context, msg *core.Message, tone string) (string, error) {
	opening, ok := replyTemplates[strings.ToLower(tone)]
	if !ok {
		opening = replyTemplates["professional"]
	}

	greeting := "Hello,"
	if msg.FromName != "" {
		greeting = fmt.Sprintf("Hello %s,", msg.FromName)
	}

	subject := core.NormalizeSubject(msg.Subject)
	body := opening
	if subject != "" {
		body = fmt.Sprintf("%s\n\nRegarding: %s", opening, subject)
	}

	return fmt.Sprintf("%s\n\n%s\n\nBest regards", greeting, body), nil
}

// ExtractActionItems returns up to five body lines that look like tasks or
// requests.
func (a *RuleBased) ExtractActionItems(_ context.Context, msg *core.Message) ([]string, error) {
	var items []string
	for _, line := range strings.Split(msg.Body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range actionKeywords {
			if strings.Contains(lower, keyword) {
				items = append(items, line)
				break
			}
		}
		if len(items) == 5 {
			break
		}
	}
	return items, nil
}
