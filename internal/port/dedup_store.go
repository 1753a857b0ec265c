package port

import "context"

type DedupStore interface {
	// SetIdempotency sets a short-lived key, returning false if it
	// already exists. Used to suppress duplicate transition fan-outs
	// caused by upstream retries.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
