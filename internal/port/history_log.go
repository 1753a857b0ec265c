package port

import (
	"context"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
)

type HistoryLog interface {
	// Append writes an immutable demand/supply observation for the
	// forecasting service.
	Append(ctx context.Context, ev domain.HistoricalEvent) error
}
