package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"gymportal/internal/adapters/email"
)

// NotifyMessageInput carries input for the new-message email notification.
type NotifyMessageInput struct {
	RecipientEmail string
	RecipientName  string
	SenderName     string
	Preview        string
}

// NotifyMessageDeps holds dependencies for NotifyMessage.
type NotifyMessageDeps struct {
	Sender    email.Sender
	From      string
	ReplyTo   string
	PortalURL string
}

// ExecuteNotifyMessage sends a best-effort email telling a member they have
// a new message waiting. Failures are logged, never surfaced to the sender.
// PRE: RecipientEmail is non-empty
// POST: Email queued with the provider, or the failure logged
func ExecuteNotifyMessage(ctx context.Context, input NotifyMessageInput, deps NotifyMessageDeps) {
	if input.RecipientEmail == "" || deps.Sender == nil {
		return
	}

	preview := input.Preview
	if runes := []rune(preview); len(runes) > 140 {
		preview = string(runes[:140]) + "…"
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have a new message from %s:</p><blockquote>%s</blockquote><p><a href=%q>Open your inbox</a></p>",
		html.EscapeString(input.RecipientName),
		html.EscapeString(input.SenderName),
		html.EscapeString(preview),
		deps.PortalURL+"/user/messages",
	)

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.RecipientEmail},
		From:    deps.From,
		Subject: fmt.Sprintf("New message from %s", input.SenderName),
		HTML:    body,
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		slog.Warn("message_event", "event", "notify_email_failed", "to", input.RecipientEmail, "error", err.Error())
		return
	}
	slog.Info("message_event", "event", "notify_email_sent", "to", input.RecipientEmail)
}
