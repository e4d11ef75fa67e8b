package port

import "context"

// MailSender delivers a rendered message to a single recipient. Template
// rendering happens before this boundary; implementations treat the body as
// opaque HTML.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
