package domain

import "time"

// NotificationType is a closed enumeration. Label and Icon switch over
// every member so that adding a type without extending the mappings is
// caught in review rather than surfacing as a runtime lookup miss.
type NotificationType string

const (
	NotificationReorderAlert NotificationType = "REORDER_ALERT"
	NotificationAINudge      NotificationType = "AI_NUDGE"
	NotificationStockUpdate  NotificationType = "STOCK_UPDATE"
	NotificationOrderStatus  NotificationType = "ORDER_STATUS"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationReorderAlert, NotificationAINudge, NotificationStockUpdate, NotificationOrderStatus:
		return true
	}
	return false
}

// Label is the human-readable category shown in notification lists.
func (t NotificationType) Label() string {
	switch t {
	case NotificationReorderAlert:
		return "Reorder"
	case NotificationAINudge:
		return "AI Recommendation"
	case NotificationStockUpdate:
		return "Stock Update"
	case NotificationOrderStatus:
		return "Order Status"
	default:
		return string(t)
	}
}

// Icon is the emoji the web client renders next to the title.
func (t NotificationType) Icon() string {
	switch t {
	case NotificationReorderAlert:
		return "📦"
	case NotificationAINudge:
		return "🤖"
	case NotificationStockUpdate:
		return "📈"
	case NotificationOrderStatus:
		return "🔔"
	default:
		return "🔔"
	}
}

// Notification is created by the fan-out pipeline and owned by the
// notification store thereafter. Read is mutated only by user action.
type Notification struct {
	ID            string
	UserID        string
	BusinessID    string
	Type          NotificationType
	Title         string
	Message       string
	ReferenceID   string
	ReferenceType string
	Metadata      map[string]any
	Read          bool
	CreatedAt     time.Time
}
