package shipping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/EasyPost/easypost-go/v5"
	"github.com/dukerupert/labelbot/internal/address"
	"github.com/shopspring/decimal"
)

const labelFormatPDF = "PDF"

// EasyPostProvider implements the Provider interface using EasyPost API.
type EasyPostProvider struct {
	client  *easypost.Client
	country string
	logger  *slog.Logger
}

// EasyPostConfig contains configuration for the EasyPost provider.
type EasyPostConfig struct {
	APIKey  string
	Country string       // Optional: defaults to "US"
	Logger  *slog.Logger // Optional: defaults to slog.Default()
}

// NewEasyPostProvider creates a new EasyPost shipping provider.
func NewEasyPostProvider(cfg EasyPostConfig) (*EasyPostProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	country := cfg.Country
	if country == "" {
		country = "US"
	}

	return &EasyPostProvider{
		client:  easypost.New(cfg.APIKey),
		country: country,
		logger:  logger,
	}, nil
}

// GetRates creates a shipment and returns its rates sorted by price.
func (p *EasyPostProvider) GetRates(ctx context.Context, s Shipment) ([]Rate, error) {
	if s.From.IsEmpty() {
		return nil, ErrFromAddressRequired
	}
	if s.To.IsEmpty() {
		return nil, ErrToAddressRequired
	}

	logger := p.logger.With(
		"from_zip", s.From.Zip,
		"to_zip", s.To.Zip,
		"is_return", s.IsReturn,
	)
	logger.Info("fetching shipping rates")

	shipment, err := p.client.CreateShipmentWithContext(ctx, &easypost.Shipment{
		FromAddress: toEasyPostAddress(s.From, p.country),
		ToAddress:   toEasyPostAddress(s.To, p.country),
		Parcel:      toEasyPostParcel(s.Parcel),
		Reference:   s.Reference,
		IsReturn:    s.IsReturn,
		Options:     &easypost.ShipmentOptions{LabelFormat: labelFormatPDF},
	})
	if err != nil {
		logger.Error("failed to create shipment", "error", err)
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}

	if len(shipment.Rates) == 0 {
		logger.Warn("no rates available for shipment", "shipment_id", shipment.ID)
		return nil, ErrNoRates
	}

	rates := make([]Rate, 0, len(shipment.Rates))
	for _, r := range shipment.Rates {
		rate, err := fromEasyPostRate(r, shipment.ID)
		if err != nil {
			logger.Warn("failed to parse rate", "carrier", r.Carrier, "error", err)
			continue
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, ErrNoRates
	}

	SortRates(rates)

	logger.Info("rates fetched successfully",
		"rate_count", len(rates),
		"shipment_id", shipment.ID,
	)

	return rates, nil
}

// BuyLabel purchases the label for a compound rate ID.
// If the shipment was already bought with the same rate, the existing label
// is returned.
func (p *EasyPostProvider) BuyLabel(ctx context.Context, rateID string) (*Label, error) {
	logger := p.logger.With("rate_id", rateID)
	logger.Info("purchasing shipping label")

	shipmentID, epRateID, err := parseRateID(rateID)
	if err != nil {
		return nil, err
	}

	shipment, err := p.client.GetShipmentWithContext(ctx, shipmentID)
	if err != nil {
		logger.Error("failed to get shipment", "error", err)
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	if shipment.PostageLabel != nil && labelURL(shipment.PostageLabel) != "" {
		if shipment.SelectedRate != nil && shipment.SelectedRate.ID != epRateID {
			logger.Warn("shipment already purchased with another rate",
				"selected_rate", shipment.SelectedRate.ID,
			)
			return nil, ErrLabelAlreadyPurchased
		}
		logger.Info("returning existing label (idempotent)")
		return toLabel(shipment), nil
	}

	var selected *easypost.Rate
	for _, r := range shipment.Rates {
		if r.ID == epRateID {
			selected = r
			break
		}
	}
	if selected == nil {
		return nil, ErrInvalidRate
	}

	bought, err := p.client.BuyShipmentWithContext(ctx, shipmentID, selected, "")
	if err != nil {
		logger.Error("failed to purchase label", "error", err)
		return nil, fmt.Errorf("failed to purchase label: %w", err)
	}
	if bought.PostageLabel == nil || labelURL(bought.PostageLabel) == "" {
		logger.Error("purchased shipment has no label", "shipment_id", bought.ID)
		return nil, ErrLabelNotFound
	}

	label := toLabel(bought)
	logger.Info("label purchased successfully",
		"tracking_number", label.TrackingNumber,
		"label_id", label.ID,
	)
	return label, nil
}

func toEasyPostAddress(addr address.ParsedAddress, country string) *easypost.Address {
	return &easypost.Address{
		Name:    addr.Name,
		Company: addr.Company,
		Street1: addr.Street1,
		Street2: addr.Street2,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.Zip,
		Country: country,
	}
}

// toEasyPostParcel converts to the inches and ounces EasyPost expects.
func toEasyPostParcel(parcel Parcel) *easypost.Parcel {
	length, width, height := parcel.Inches()
	return &easypost.Parcel{
		Length: length,
		Width:  width,
		Height: height,
		Weight: parcel.Ounces(),
	}
}

func fromEasyPostRate(r *easypost.Rate, shipmentID string) (Rate, error) {
	price, err := parseDollars(r.Rate)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to parse rate amount: %w", err)
	}

	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}

	return Rate{
		// Encode shipment ID with rate ID so we can buy later
		ID:          fmt.Sprintf("%s:%s", shipmentID, r.ID),
		Carrier:     r.Carrier,
		Service:     r.Service,
		Price:       price,
		Currency:    currency,
		TransitDays: r.DeliveryDays,
	}, nil
}

func toLabel(s *easypost.Shipment) *Label {
	createdAt := time.Now()
	if s.CreatedAt != nil {
		createdAt = s.CreatedAt.AsTime()
	}
	return &Label{
		ID:             s.ID,
		TrackingNumber: s.TrackingCode,
		LabelURL:       labelURL(s.PostageLabel),
		CreatedAt:      createdAt,
	}
}

// labelURL prefers the PDF rendition of a label.
func labelURL(l *easypost.PostageLabel) string {
	if l.LabelPDFURL != "" {
		return l.LabelPDFURL
	}
	return l.LabelURL
}

// parseRateID splits a compound rate ID into shipment ID and rate ID.
func parseRateID(rateID string) (shipmentID, epRateID string, err error) {
	shipmentID, epRateID, ok := strings.Cut(rateID, ":")
	if !ok || shipmentID == "" || epRateID == "" {
		return "", "", ErrInvalidRateIDFormat
	}
	return shipmentID, epRateID, nil
}

// parseDollars parses a dollar amount string like "5.25", "5" or "5.1".
func parseDollars(dollars string) (decimal.Decimal, error) {
	dollars = strings.TrimSpace(dollars)
	if dollars == "" {
		return decimal.Zero, ErrInvalidAmount("", nil)
	}

	amount, err := decimal.NewFromString(dollars)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount(dollars, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount(dollars, fmt.Errorf("negative amount"))
	}
	return amount.Round(2), nil
}
