package notify

import "context"

// Notifier delivers an HTML message to a set of recipients.
type Notifier interface {
	Send(ctx context.Context, subject, html string, to []string) error
}
