package shipping

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Provider defines the interface for the carrier rate/label service.
type Provider interface {
	// GetRates returns the quotes available for a shipment, cheapest first.
	GetRates(ctx context.Context, shipment Shipment) ([]Rate, error)

	// BuyLabel purchases the label for a previously quoted rate.
	BuyLabel(ctx context.Context, rateID string) (*Label, error)
}

// Rate is one carrier quote for a shipment.
type Rate struct {
	// ID identifies the quote when buying a label. Opaque to callers.
	ID       string
	Carrier  string
	Service  string
	Price    decimal.Decimal
	Currency string

	// TransitDays is the estimated delivery time. Zero means unknown.
	TransitDays int
}

// Label is a purchased shipping label.
type Label struct {
	ID             string
	TrackingNumber string
	LabelURL       string
	CreatedAt      time.Time
}

// SortRates orders rates by price ascending, breaking ties by carrier and
// service so the order is deterministic.
func SortRates(rates []Rate) {
	slices.SortStableFunc(rates, func(a, b Rate) int {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c
		}
		if c := strings.Compare(a.Carrier, b.Carrier); c != 0 {
			return c
		}
		return strings.Compare(a.Service, b.Service)
	})
}
