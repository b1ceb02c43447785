package notify

import "context"

// Sender delivers a rendered HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}
