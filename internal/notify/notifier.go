// Package notify delivers reminders about upcoming automatic contributions.
package notify

import (
	"context"

	"jarify/internal/amqp"
	"jarify/internal/log"
)

// Notifier delivers a single reminder. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes reminders to the log. It is the fallback when no
// broker is configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentNotify)
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.InfoContext(ctx, "Notification",
		"title", title,
		"body", body)
	return nil
}

// AMQPNotifier publishes reminders to a message broker.
type AMQPNotifier struct {
	client *amqp.Client
}

func NewAMQPNotifier(client *amqp.Client) *AMQPNotifier {
	return &AMQPNotifier{client: client}
}

func (n *AMQPNotifier) Notify(ctx context.Context, title, body string) error {
	return n.client.PublishNotification(ctx, title, body)
}

// Multi fans a reminder out to several notifiers. Every notifier is tried;
// the first error is returned.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, body string) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, title, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
