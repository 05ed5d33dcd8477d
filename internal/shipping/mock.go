package shipping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MockProvider is a test implementation of Provider.
type MockProvider struct {
	GetRatesFunc func(ctx context.Context, shipment Shipment) ([]Rate, error)
	BuyLabelFunc func(ctx context.Context, rateID string) (*Label, error)
}

// NewMockProvider creates a new mock shipping provider for testing.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GetRates delegates to the configured function or returns a single rate.
func (m *MockProvider) GetRates(ctx context.Context, shipment Shipment) ([]Rate, error) {
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, shipment)
	}
	return []Rate{{
		ID:          "shp_mock:rate_mock",
		Carrier:     "USPS",
		Service:     "Priority",
		Price:       decimal.RequireFromString("7.50"),
		Currency:    "USD",
		TransitDays: 2,
	}}, nil
}

// BuyLabel delegates to the configured function or returns a fixed label.
func (m *MockProvider) BuyLabel(ctx context.Context, rateID string) (*Label, error) {
	if m.BuyLabelFunc != nil {
		return m.BuyLabelFunc(ctx, rateID)
	}
	return &Label{
		ID:             "shp_mock",
		TrackingNumber: "9400100000000000000000",
		LabelURL:       "https://example.com/label.pdf",
		CreatedAt:      time.Now(),
	}, nil
}
