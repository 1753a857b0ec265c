package port

import "context"

type EmailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type EmailGateway interface {
	// Send delivers a transactional email and returns the provider's
	// message id. An unconfigured gateway logs the message and returns
	// an empty id with a nil error.
	Send(ctx context.Context, msg EmailMessage) (string, error)
}
