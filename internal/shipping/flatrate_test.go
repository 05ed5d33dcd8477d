package shipping_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipment() shipping.Shipment {
	return shipping.Shipment{
		From: address.ParsedAddress{
			Name:    "Jane Doe",
			Street1: "123 Main St",
			City:    "Springfield",
			State:   "IL",
			Zip:     "62704",
		},
		To: address.ParsedAddress{
			Company: "Acme Returns",
			Street1: "456 Oak Ave",
			City:    "Portland",
			State:   "OR",
			Zip:     "97201",
		},
		Parcel: shipping.Parcel{
			Length: "10", Width: "8", Height: "4", Weight: "16",
			DistanceUnit: "in", MassUnit: "oz",
		},
	}
}

func TestFlatRateProvider_GetRates_SingleRate(t *testing.T) {
	provider := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{
			Code:    "STD",
			Service: "Standard Shipping",
			Price:   decimal.RequireFromString("5.00"),
			Days:    5,
		},
	})

	result, err := provider.GetRates(context.Background(), testShipment())

	require.NoError(t, err)
	require.Len(t, result, 1)

	rate := result[0]
	assert.Equal(t, "STD", rate.ID)
	assert.Equal(t, "Flat Rate", rate.Carrier)
	assert.Equal(t, "Standard Shipping", rate.Service)
	assert.True(t, rate.Price.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, "USD", rate.Currency)
	assert.Equal(t, 5, rate.TransitDays)
}

func TestFlatRateProvider_GetRates_SortedByPrice(t *testing.T) {
	provider := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{Code: "PRI", Service: "Priority Overnight", Price: decimal.RequireFromString("25.00"), Days: 1},
		{Code: "STD", Service: "Standard Shipping", Price: decimal.RequireFromString("5.00"), Days: 5},
		{Code: "EXP", Service: "Express Shipping", Price: decimal.RequireFromString("15.00"), Days: 2},
		{Code: "ECO", Carrier: "Acme Post", Service: "Economy", Price: decimal.RequireFromString("5.00"), Days: 7},
	})

	result, err := provider.GetRates(context.Background(), testShipment())
	require.NoError(t, err)

	var codes []string
	for _, r := range result {
		codes = append(codes, r.ID)
	}
	assert.Equal(t, []string{"ECO", "STD", "EXP", "PRI"}, codes)
}

func TestFlatRateProvider_GetRates_Errors(t *testing.T) {
	provider := shipping.NewFlatRateProvider([]shipping.FlatRate{
		{Code: "STD", Price: decimal.NewFromInt(5)},
	})

	tests := []struct {
		name    string
		modify  func(s *shipping.Shipment)
		wantErr error
	}{
		{"missing from", func(s *shipping.Shipment) { s.From = address.ParsedAddress{} }, shipping.ErrFromAddressRequired},
		{"missing to", func(s *shipping.Shipment) { s.To = address.ParsedAddress{} }, shipping.ErrToAddressRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testShipment()
			tt.modify(&s)

			result, err := provider.GetRates(context.Background(), s)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestFlatRateProvider_GetRates_NoRatesConfigured(t *testing.T) {
	provider := shipping.NewFlatRateProvider(nil)

	_, err := provider.GetRates(context.Background(), testShipment())

	assert.ErrorIs(t, err, shipping.ErrNoRates)
}

func TestFlatRateProvider_BuyLabel_NotImplemented(t *testing.T) {
	provider := shipping.NewFlatRateProvider(nil)

	label, err := provider.BuyLabel(context.Background(), "STD")

	assert.Nil(t, label)
	assert.ErrorIs(t, err, shipping.ErrNotImplemented)

	var se *shipping.ShippingError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not_implemented", se.ErrorCode())
}

func TestMockProvider(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		m := shipping.NewMockProvider()

		rates, err := m.GetRates(context.Background(), testShipment())
		require.NoError(t, err)
		assert.Len(t, rates, 1)

		label, err := m.BuyLabel(context.Background(), rates[0].ID)
		require.NoError(t, err)
		assert.NotEmpty(t, label.TrackingNumber)
	})

	t.Run("hooks", func(t *testing.T) {
		boom := errors.New("boom")
		m := shipping.NewMockProvider()
		m.GetRatesFunc = func(ctx context.Context, s shipping.Shipment) ([]shipping.Rate, error) {
			return nil, boom
		}
		m.BuyLabelFunc = func(ctx context.Context, rateID string) (*shipping.Label, error) {
			return &shipping.Label{ID: rateID}, nil
		}

		_, err := m.GetRates(context.Background(), testShipment())
		assert.ErrorIs(t, err, boom)

		label, err := m.BuyLabel(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", label.ID)
	})
}
