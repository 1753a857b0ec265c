package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
	"github.com/chainmind/order-lifecycle/internal/port"
)

// Orchestrator reacts to committed order transitions by fanning out the
// downstream effects: persisted notifications, realtime pushes, vendor
// emails, historical logging, and the retrain signal. The order store
// has already validated and committed the transition; the orchestrator
// never decides whether a transition is allowed.
//
// The orchestrator itself only errors on a broken precondition
// (malformed event). Effect-level failures are isolated by the
// pipeline and show up in the report, never as a returned error.
type Orchestrator struct {
	notifications port.NotificationStore
	push          port.PushChannel
	email         port.EmailGateway
	history       port.HistoryLog
	retrain       port.RetrainTrigger
	resolver      port.RecipientResolver
	dedup         port.DedupStore
	pipeline      *Pipeline
	supervisor    *Supervisor
	logger        *slog.Logger
}

// Deps carries the orchestrator's collaborators. Dedup is optional:
// nil disables duplicate-transition suppression.
type Deps struct {
	Notifications port.NotificationStore
	Push          port.PushChannel
	Email         port.EmailGateway
	History       port.HistoryLog
	Retrain       port.RetrainTrigger
	Resolver      port.RecipientResolver
	Dedup         port.DedupStore
	Pipeline      *Pipeline
	Supervisor    *Supervisor
	Logger        *slog.Logger
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Pipeline == nil {
		deps.Pipeline = NewPipeline(0, deps.Logger)
	}
	if deps.Supervisor == nil {
		deps.Supervisor = NewSupervisor(deps.Logger)
	}
	return &Orchestrator{
		notifications: deps.Notifications,
		push:          deps.Push,
		email:         deps.Email,
		history:       deps.History,
		retrain:       deps.Retrain,
		resolver:      deps.Resolver,
		dedup:         deps.Dedup,
		pipeline:      deps.Pipeline,
		supervisor:    deps.Supervisor,
		logger:        deps.Logger,
	}
}

// Close drains background tasks spawned by delivered transitions.
func (o *Orchestrator) Close() {
	o.supervisor.Wait()
}

// OrderSubmitted fans out reorder alerts to the business owners and
// managers and, when resolvable, to the vendor's portal account.
func (o *Orchestrator) OrderSubmitted(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return o.dispatch(ctx, domain.TransitionSubmitted, ev, func(ctx context.Context, ev domain.TransitionEvent) []Effect {
		metadata := map[string]any{"quantity": ev.Quantity}
		if len(ev.AIRecommendation) > 0 {
			metadata["ai_recommendation"] = ev.AIRecommendation
		}
		effects := o.businessEffects(ctx, ev, domain.NotificationReorderAlert, submittedTitle(), submittedMessage(ev), metadata)
		return append(effects, o.vendorUserEffect(ev, domain.NotificationReorderAlert, submittedTitle(), submittedMessage(ev), metadata))
	})
}

// OrderApproved sends the vendor reorder-confirmation email first —
// it is what actually moves goods, so it must never wait on or be
// skipped because of the informational notifications — then notifies
// the business recipients and the vendor user.
func (o *Orchestrator) OrderApproved(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return o.dispatch(ctx, domain.TransitionApproved, ev, func(ctx context.Context, ev domain.TransitionEvent) []Effect {
		effects := []Effect{o.vendorEmailEffect(ev, reorderConfirmationEmail)}
		effects = append(effects, o.businessEffects(ctx, ev, domain.NotificationOrderStatus, approvedTitle(), approvedMessage(ev), nil)...)
		return append(effects, o.vendorUserEffect(ev, domain.NotificationOrderStatus, approvedTitle(), approvedMessage(ev), nil))
	})
}

// OrderRejected notifies business recipients and the vendor user,
// including the rejection reason when present.
func (o *Orchestrator) OrderRejected(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return o.dispatch(ctx, domain.TransitionRejected, ev, func(ctx context.Context, ev domain.TransitionEvent) []Effect {
		metadata := map[string]any{}
		if reason := strings.TrimSpace(ev.Reason); reason != "" {
			metadata["reason"] = reason
		}
		effects := o.businessEffects(ctx, ev, domain.NotificationOrderStatus, rejectedTitle(), rejectedMessage(ev), metadata)
		return append(effects, o.vendorUserEffect(ev, domain.NotificationOrderStatus, rejectedTitle(), rejectedMessage(ev), metadata))
	})
}

// OrderDelivered appends the restock observation, dispatches the
// detached retrain signal, notifies the business recipients, emails
// the vendor a delivery acknowledgement, and notifies the vendor user.
// The retrain signal is never part of the report and never blocks the
// fan-out.
func (o *Orchestrator) OrderDelivered(ctx context.Context, ev domain.TransitionEvent) (domain.TransitionReport, error) {
	return o.dispatch(ctx, domain.TransitionDelivered, ev, func(ctx context.Context, ev domain.TransitionEvent) []Effect {
		o.supervisor.Go(ctx, "retrain:"+ev.OrderID, func(ctx context.Context) error {
			return o.retrain.TriggerRetrain(ctx)
		})

		effects := []Effect{o.historyEffect(ev)}
		effects = append(effects, o.businessEffects(ctx, ev, domain.NotificationStockUpdate, deliveredTitle(), deliveredMessage(ev), map[string]any{"quantity": ev.Quantity})...)
		effects = append(effects, o.vendorEmailEffect(ev, deliveryAckEmail))
		return append(effects, o.vendorUserEffect(ev, domain.NotificationOrderStatus, deliveredTitle(), deliveredVendorMessage(ev), nil))
	})
}

func (o *Orchestrator) dispatch(
	ctx context.Context,
	kind domain.TransitionKind,
	ev domain.TransitionEvent,
	assemble func(ctx context.Context, ev domain.TransitionEvent) []Effect,
) (domain.TransitionReport, error) {
	ev.Kind = kind
	if err := ev.Validate(); err != nil {
		return domain.TransitionReport{}, err
	}

	if o.dedup != nil {
		key := fmt.Sprintf("transition:%s:%s", ev.OrderID, kind)
		ok, err := o.dedup.SetIdempotency(ctx, key)
		switch {
		case err != nil:
			// Fail open: a broken dedup store must not block fan-out.
			o.logger.Warn("dedup check failed, continuing",
				"transition", kind, "order_id", ev.OrderID, "error", err)
		case !ok:
			o.logger.Warn("duplicate transition suppressed",
				"transition", kind, "order_id", ev.OrderID)
			return domain.TransitionReport{
				Kind:    kind,
				OrderID: ev.OrderID,
				Outcomes: []domain.EffectOutcome{{
					Name:   "dedup",
					Status: domain.EffectSkipped,
					Detail: "duplicate transition",
				}},
			}, nil
		}
	}

	report := o.pipeline.Execute(ctx, kind, ev.OrderID, assemble(ctx, ev))
	o.logger.Info("transition fan-out complete",
		"transition", kind, "order_id", ev.OrderID,
		"succeeded", report.Succeeded(), "failed", report.Failed(), "skipped", report.Skipped())
	return report, nil
}

// notify persists one notification and best-effort pushes it to the
// recipient's connected clients. A push failure is log-only; the
// persisted record is the source of truth.
func (o *Orchestrator) notify(ctx context.Context, ev domain.TransitionEvent, userID string, typ domain.NotificationType, title, message string, metadata map[string]any) error {
	created, err := o.notifications.CreateNotification(ctx, domain.Notification{
		ID:            uuid.NewString(),
		UserID:        userID,
		BusinessID:    ev.BusinessID,
		Type:          typ,
		Title:         title,
		Message:       message,
		ReferenceID:   ev.OrderID,
		ReferenceType: "order",
		Metadata:      metadata,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if err := o.push.Publish(ctx, userID, "notification", created); err != nil {
		o.logger.Warn("realtime push failed",
			"user_id", userID, "order_id", ev.OrderID, "error", err)
	}
	return nil
}

// businessEffects builds one effect per business recipient so that one
// recipient's failure never skips another. A resolver failure becomes
// a single failed outcome instead of aborting the transition.
func (o *Orchestrator) businessEffects(ctx context.Context, ev domain.TransitionEvent, typ domain.NotificationType, title, message string, metadata map[string]any) []Effect {
	recipients, err := o.resolver.BusinessRecipients(ctx, ev.BusinessID)
	if err != nil {
		resolveErr := fmt.Errorf("resolve business recipients: %w", err)
		return []Effect{{
			Name: "notify-business",
			Run:  func(context.Context) error { return resolveErr },
		}}
	}

	effects := make([]Effect, 0, len(recipients))
	for _, userID := range recipients {
		userID := userID
		effects = append(effects, Effect{
			Name: "notify-business:" + userID,
			Run: func(ctx context.Context) error {
				return o.notify(ctx, ev, userID, typ, title, message, metadata)
			},
		})
	}
	return effects
}

func (o *Orchestrator) vendorUserEffect(ev domain.TransitionEvent, typ domain.NotificationType, title, message string, metadata map[string]any) Effect {
	return Effect{
		Name: "notify-vendor-user",
		Run: func(ctx context.Context) error {
			if ev.Vendor.ID == "" {
				return Skip("order has no vendor reference")
			}
			userID, err := o.resolver.VendorUser(ctx, ev.Vendor.ID)
			if errors.Is(err, port.ErrNoVendorUser) {
				return Skip("vendor %s has no portal account", vendorLabel(ev))
			}
			if err != nil {
				return fmt.Errorf("resolve vendor user: %w", err)
			}
			return o.notify(ctx, ev, userID, typ, title, message, metadata)
		},
	}
}

func (o *Orchestrator) vendorEmailEffect(ev domain.TransitionEvent, build func(domain.TransitionEvent, domain.VendorContact) port.EmailMessage) Effect {
	return Effect{
		Name: "vendor-email",
		Run: func(ctx context.Context) error {
			if ev.Vendor.ID == "" && ev.Vendor.Email == "" {
				return Skip("order has no vendor reference")
			}
			contact, err := o.resolver.VendorContact(ctx, ev.Vendor)
			if errors.Is(err, port.ErrNoVendorContact) {
				return Skip("no contact on file for %s", vendorLabel(ev))
			}
			if err != nil {
				return fmt.Errorf("resolve vendor contact: %w", err)
			}
			if strings.TrimSpace(contact.Email) == "" {
				return Skip("%s has no email address", vendorLabel(ev))
			}

			messageID, err := o.email.Send(ctx, build(ev, contact))
			if err != nil {
				return fmt.Errorf("send vendor email: %w", err)
			}
			if messageID != "" {
				o.logger.Info("vendor email sent",
					"order_id", ev.OrderID, "message_id", messageID)
			}
			return nil
		},
	}
}

// historyEffect appends the RESTOCK observation. QuantitySold stays
// zero and the delivered quantity rides in metadata so the forecaster
// never counts a delivery as demand.
func (o *Orchestrator) historyEffect(ev domain.TransitionEvent) Effect {
	return Effect{
		Name: "history-restock",
		Run: func(ctx context.Context) error {
			if ev.Product.ID == "" {
				return Skip("order has no product reference")
			}
			record := domain.HistoricalEvent{
				ID:           uuid.NewString(),
				ProductID:    ev.Product.ID,
				BusinessID:   ev.BusinessID,
				VendorID:     ev.Vendor.ID,
				Date:         time.Now().UTC().Truncate(24 * time.Hour),
				QuantitySold: 0,
				Kind:         domain.HistoricalRestock,
				Metadata: map[string]any{
					"delivered_quantity": ev.Quantity,
					"order_id":           ev.OrderID,
				},
			}
			if err := o.history.Append(ctx, record); err != nil {
				return fmt.Errorf("append historical event: %w", err)
			}
			return nil
		},
	}
}
