package port

import (
	"context"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

type NotificationStore interface {
	// CreateNotification persists a notification record. Not
	// idempotent; the caller must not invoke it twice for the same
	// (recipient, transition) pair.
	CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// UnreadCount returns the number of unread notifications for a
	// user within a business.
	UnreadCount(ctx context.Context, userID, businessID string) (int, error)
}
