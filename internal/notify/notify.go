package notify

import (
	"context"
	"strings"

	"github.com/ksyq12/certkeeper/internal/errors"
	"github.com/ksyq12/certkeeper/internal/logger"
	"github.com/ksyq12/certkeeper/internal/template"
)

// Action records one renewal performed during a cycle.
type Action struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
	Reasons []string `json:"reasons"`
}

// Message is a plain-text mail.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Envelope holds the addressing shared by every notification.
type Envelope struct {
	From    string
	To      []string
	Subject string
}

// Notifier sends a summary of renewal actions.
type Notifier struct {
	sender   Sender
	envelope Envelope
}

// New creates a Notifier. A nil sender logs messages instead of sending them.
func New(sender Sender, env Envelope) *Notifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &Notifier{sender: sender, envelope: env}
}

// Summary renders the plain-text body for actions.
func Summary(actions []Action) (string, error) {
	return template.Render(template.Renewed, actions)
}

// Notify sends one message covering all actions. Nothing is sent for an
// empty list. Failures are NOTIFY_FAILURE errors.
func (n *Notifier) Notify(ctx context.Context, actions []Action) error {
	if len(actions) == 0 {
		return nil
	}

	body, err := Summary(actions)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotify, "failed to render summary", err)
	}

	msg := Message{
		From:    n.envelope.From,
		To:      n.envelope.To,
		Subject: n.envelope.Subject,
		Body:    body,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return errors.Wrap(errors.ErrCodeNotify, "failed to send notification", err)
	}

	logger.InfoFields("Sent renewal notification", map[string]interface{}{
		"to":      strings.Join(msg.To, ","),
		"actions": len(actions),
	})
	return nil
}

// SplitAddresses splits a comma-separated address list, dropping blanks.
func SplitAddresses(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// LogSender writes messages to the log. Used when no SMTP host is set.
type LogSender struct{}

// Send logs the message.
func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.Info("Mail disabled, notification for %s:\n%s", strings.Join(msg.To, ","), msg.Body)
	return nil
}
