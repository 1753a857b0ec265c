package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
	"github.com/chainmind/order-lifecycle/internal/port"
)

// Lifecycle is the slice of the orchestrator the handler needs.
type Lifecycle interface {
	OrderSubmitted(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error)
	OrderApproved(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error)
	OrderRejected(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error)
	OrderDelivered(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error)
}

// HTTPHandler receives transition callbacks from the order store after
// it commits a state change. The fan-out itself never fails the
// request; only malformed events produce an error status.
type HTTPHandler struct {
	lifecycle     Lifecycle
	notifications port.NotificationStore
}

func NewHTTPHandler(lifecycle Lifecycle, notifications port.NotificationStore) *HTTPHandler {
	return &HTTPHandler{lifecycle: lifecycle, notifications: notifications}
}

type productPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
}

type vendorPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type transitionRequest struct {
	Kind             string         `json:"kind"`
	OrderID          string         `json:"order_id"`
	BusinessID       string         `json:"business_id"`
	Quantity         int            `json:"quantity"`
	Total            float64        `json:"total"`
	Currency         string         `json:"currency"`
	Reason           string         `json:"reason"`
	Product          productPayload `json:"product"`
	Vendor           vendorPayload  `json:"vendor"`
	AIRecommendation map[string]any `json:"ai_recommendation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	ev := domain.TransitionEvent{
		OrderID:    req.OrderID,
		BusinessID: req.BusinessID,
		Quantity:   req.Quantity,
		Total:      req.Total,
		Currency:   req.Currency,
		Reason:     req.Reason,
		Product: domain.ProductRef{
			ID:    req.Product.ID,
			Name:  req.Product.Name,
			SKU:   req.Product.SKU,
			Stock: req.Product.Stock,
		},
		Vendor: domain.VendorRef{
			ID:    req.Vendor.ID,
			Name:  req.Vendor.Name,
			Email: req.Vendor.Email,
		},
		AIRecommendation: req.AIRecommendation,
	}

	var (
		report domain.TransitionReport
		err    error
	)
	switch domain.TransitionKind(req.Kind) {
	case domain.TransitionSubmitted:
		report, err = h.lifecycle.OrderSubmitted(r.Context(), ev)
	case domain.TransitionApproved:
		report, err = h.lifecycle.OrderApproved(r.Context(), ev)
	case domain.TransitionRejected:
		report, err = h.lifecycle.OrderRejected(r.Context(), ev)
	case domain.TransitionDelivered:
		report, err = h.lifecycle.OrderDelivered(r.Context(), ev)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown transition kind"})
		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidEvent) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *HTTPHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	businessID := r.URL.Query().Get("business_id")
	if userID == "" || businessID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and business_id are required"})
		return
	}

	count, err := h.notifications.UnreadCount(r.Context(), userID, businessID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
