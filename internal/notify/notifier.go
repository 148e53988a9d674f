// Package notify delivers password reset links. Rendering and sending the
// actual email is done by whatever consumes the mail queue.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Notifier sends a reset link to a user.
type Notifier interface {
	SendResetLink(ctx context.Context, email, link string) error
}

// Publisher is the subset of the RabbitMQ client used here.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, payload any) error
}

// ResetMail is the message placed on the mail queue.
type ResetMail struct {
	Template string    `json:"template"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Link     string    `json:"link"`
	At       time.Time `json:"at"`
}

// QueueNotifier publishes reset mails to a queue.
type QueueNotifier struct {
	publisher Publisher
	queue     string
}

func NewQueueNotifier(publisher Publisher, queue string) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, queue: queue}
}

func (n *QueueNotifier) SendResetLink(ctx context.Context, email, link string) error {
	msg := ResetMail{
		Template: "password_reset",
		To:       email,
		Subject:  "Your Password Reset Token",
		Link:     link,
		At:       time.Now().UTC(),
	}
	if err := n.publisher.PublishJSON(ctx, n.queue, msg); err != nil {
		return fmt.Errorf("failed to queue reset mail: %w", err)
	}
	return nil
}

// LogNotifier writes reset links to the log. Used when no broker is
// configured, e.g. in local development.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendResetLink(ctx context.Context, email, link string) error {
	n.logger.InfoContext(ctx, "password reset requested",
		slog.String("email", email),
		slog.String("link", link),
	)
	return nil
}
