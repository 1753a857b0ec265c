package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

type fakeLifecycle struct {
	calls  []domain.TransitionKind
	events []domain.TransitionEvent
}

func (f *fakeLifecycle) handle(kind domain.TransitionKind, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	if err := ev.Validate(); err != nil {
		return domain.TransitionReport{}, err
	}
	f.calls = append(f.calls, kind)
	f.events = append(f.events, ev)
	return domain.TransitionReport{
		Kind:    kind,
		OrderID: ev.OrderID,
		Outcomes: []domain.EffectOutcome{
			{Name: "vendor-email", Status: domain.EffectSucceeded},
		},
	}, nil
}

func (f *fakeLifecycle) OrderSubmitted(_ context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return f.handle(domain.TransitionSubmitted, ev)
}

func (f *fakeLifecycle) OrderApproved(_ context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return f.handle(domain.TransitionApproved, ev)
}

func (f *fakeLifecycle) OrderRejected(_ context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return f.handle(domain.TransitionRejected, ev)
}

func (f *fakeLifecycle) OrderDelivered(_ context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return f.handle(domain.TransitionDelivered, ev)
}

type fakeStore struct {
	unread int
	err    error
}

func (f *fakeStore) CreateNotification(_ context.Context, n domain.Notification) (domain.Notification, error) {
	return n, nil
}

func (f *fakeStore) UnreadCount(context.Context, string, string) (int, error) {
	return f.unread, f.err
}

func postTransition(t *testing.T, h *HTTPHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/internal/transitions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Transition(rec, req)
	return rec
}

func TestTransition_DispatchesByKind(t *testing.T) {
	kinds := []domain.TransitionKind{
		domain.TransitionSubmitted,
		domain.TransitionApproved,
		domain.TransitionRejected,
		domain.TransitionDelivered,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			lifecycle := &fakeLifecycle{}
			h := NewHTTPHandler(lifecycle, &fakeStore{})

			body := `{
				"kind": "` + string(kind) + `",
				"order_id": "O1",
				"business_id": "B1",
				"quantity": 50,
				"total": 1250,
				"currency": "USD",
				"product": {"id": "P1", "name": "Widget", "sku": "W-100"},
				"vendor": {"id": "V1", "name": "Acme", "email": "a@x.com"}
			}`
			rec := postTransition(t, h, body)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if len(lifecycle.calls) != 1 || lifecycle.calls[0] != kind {
				t.Errorf("expected one %s call, got %v", kind, lifecycle.calls)
			}

			ev := lifecycle.events[0]
			if ev.OrderID != "O1" || ev.Quantity != 50 || ev.Vendor.Email != "a@x.com" {
				t.Errorf("event mapping broken: %+v", ev)
			}

			var report domain.TransitionReport
			if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
				t.Fatalf("bad response: %v", err)
			}
			if report.OrderID != "O1" || len(report.Outcomes) != 1 {
				t.Errorf("unexpected report: %+v", report)
			}
		})
	}
}

func TestTransition_UnknownKind(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{})

	rec := postTransition(t, h, `{"kind": "CONFIRMED", "order_id": "O1", "business_id": "B1", "quantity": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTransition_InvalidEvent(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{})

	rec := postTransition(t, h, `{"kind": "APPROVED", "business_id": "B1", "quantity": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing order id, got %d", rec.Code)
	}
}

func TestTransition_BadBody(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{})

	rec := postTransition(t, h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTransition_MethodNotAllowed(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/internal/transitions", nil)
	rec := httptest.NewRecorder()
	h.Transition(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestUnreadCount(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{unread: 3})

	req := httptest.NewRequest(http.MethodGet, "/internal/notifications/unread?user_id=u1&business_id=b1", nil)
	rec := httptest.NewRecorder()
	h.UnreadCount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp["unread"] != 3 {
		t.Errorf("expected 3, got %d", resp["unread"])
	}
}

func TestUnreadCount_MissingParams(t *testing.T) {
	h := NewHTTPHandler(&fakeLifecycle{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/internal/notifications/unread?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.UnreadCount(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
