// Package notify defines the notification interface and implementations
// for stock alert delivery.
package notify

import "context"

// Message is one alert ready for delivery.
type Message struct {
	Subject    string
	Body       string
	Recipients []string
}

// Notifier defines the interface for sending stock alert notifications.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
