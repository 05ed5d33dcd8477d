package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// FlatRateProvider returns predefined flat-rate quotes.
// Used in development when no carrier API key is configured.
type FlatRateProvider struct {
	rates []FlatRate
}

// FlatRate defines a single flat-rate shipping option.
type FlatRate struct {
	Code     string          `yaml:"code"`
	Carrier  string          `yaml:"carrier"`
	Service  string          `yaml:"service"`
	Price    decimal.Decimal `yaml:"price"`
	Days     int             `yaml:"days"`
	Currency string          `yaml:"currency"`
}

// NewFlatRateProvider creates a new flat-rate shipping provider.
func NewFlatRateProvider(rates []FlatRate) Provider {
	return &FlatRateProvider{rates: rates}
}

// GetRates converts flat rates to Rate objects, cheapest first.
func (p *FlatRateProvider) GetRates(ctx context.Context, s Shipment) ([]Rate, error) {
	if s.From.IsEmpty() {
		return nil, ErrFromAddressRequired
	}
	if s.To.IsEmpty() {
		return nil, ErrToAddressRequired
	}
	if len(p.rates) == 0 {
		return nil, ErrNoRates
	}

	result := make([]Rate, len(p.rates))
	for i, fr := range p.rates {
		carrier := fr.Carrier
		if carrier == "" {
			carrier = "Flat Rate"
		}
		currency := fr.Currency
		if currency == "" {
			currency = "USD"
		}
		result[i] = Rate{
			ID:          fr.Code,
			Carrier:     carrier,
			Service:     fr.Service,
			Price:       fr.Price,
			Currency:    currency,
			TransitDays: fr.Days,
		}
	}
	SortRates(result)
	return result, nil
}

// BuyLabel is not supported for flat-rate provider.
func (p *FlatRateProvider) BuyLabel(ctx context.Context, rateID string) (*Label, error) {
	return nil, ErrNotImplemented
}
