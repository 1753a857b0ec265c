package domain

import "time"

// HistoricalEventKind discriminates demand from supply observations in
// the forecasting log. The forecaster trains on SALE rows only; RESTOCK
// rows carry QuantitySold=0 so a delivery is never mistaken for demand.
type HistoricalEventKind string

const (
	HistoricalSale    HistoricalEventKind = "SALE"
	HistoricalRestock HistoricalEventKind = "RESTOCK"
)

// HistoricalEvent is an append-only observation consumed by the
// external forecasting service.
type HistoricalEvent struct {
	ID           string
	ProductID    string
	BusinessID   string
	VendorID     string
	Date         time.Time // day granularity
	QuantitySold int
	Kind         HistoricalEventKind
	Location     string
	Metadata     map[string]any
}
