package port

import "context"

type PushChannel interface {
	// Publish delivers an event to the user's currently-connected
	// clients. Best effort: no delivery guarantee, and callers treat
	// errors as log-only.
	Publish(ctx context.Context, userID, event string, payload any) error
}
