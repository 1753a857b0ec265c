package domain

import (
	"errors"
	"fmt"
)

// TransitionKind identifies the committed order state change the
// orchestrator reacts to. Only the four fan-out transitions appear here;
// intermediate shipping states (confirmed, dispatched, in transit) are
// handled by the order store without side effects.
type TransitionKind string

const (
	TransitionSubmitted TransitionKind = "SUBMITTED"
	TransitionApproved  TransitionKind = "APPROVED"
	TransitionRejected  TransitionKind = "REJECTED"
	TransitionDelivered TransitionKind = "DELIVERED"
)

// OrderStatus values mirror the order store's state machine:
// SUBMITTED → APPROVED → {CONFIRMED → DISPATCHED → IN_TRANSIT → DELIVERED}
// or APPROVED → REJECTED. DELIVERED and REJECTED are terminal.
type OrderStatus string

const (
	OrderStatusSubmitted  OrderStatus = "submitted"
	OrderStatusApproved   OrderStatus = "approved"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRejected   OrderStatus = "rejected"
)

// ProductRef is the resolved product snapshot carried by a transition.
// It may be partially populated; effects degrade rather than fail.
type ProductRef struct {
	ID    string
	Name  string
	SKU   string
	Stock int
}

// VendorRef is the resolved vendor snapshot carried by a transition.
// Email is commonly absent; a vendor without a portal login or contact
// address is a normal state, not an error.
type VendorRef struct {
	ID    string
	Name  string
	Email string
}

// VendorContact is the resolved name/email pair used by email effects.
type VendorContact struct {
	Name  string
	Email string
}

// TransitionEvent is the immutable input to the lifecycle orchestrator,
// constructed once per committed state change and discarded after the
// fan-out returns.
type TransitionEvent struct {
	OrderID          string
	BusinessID       string
	Product          ProductRef
	Vendor           VendorRef
	Quantity         int
	Total            float64
	Currency         string
	Kind             TransitionKind
	Reason           string
	AIRecommendation map[string]any
}

var ErrInvalidEvent = errors.New("invalid transition event")

// Validate checks the mandatory fields. A violation is a broken caller
// precondition and aborts the fan-out entirely, unlike the optional
// product/vendor references which merely degrade individual effects.
func (e TransitionEvent) Validate() error {
	if e.OrderID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidEvent)
	}
	if e.BusinessID == "" {
		return fmt.Errorf("%w: missing business id", ErrInvalidEvent)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidEvent, e.Quantity)
	}
	return nil
}
