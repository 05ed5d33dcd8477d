package shipping

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/EasyPost/easypost-go/v5"
	"github.com/dukerupert/labelbot/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddressVerifier struct {
	got  *easypost.Address
	opts *easypost.CreateAddressOptions
	out  *easypost.Address
	err  error
}

func (f *fakeAddressVerifier) CreateAddressWithContext(ctx context.Context, in *easypost.Address, opts *easypost.CreateAddressOptions) (*easypost.Address, error) {
	f.got = in
	f.opts = opts
	return f.out, f.err
}

func newTestValidator(client addressVerifier) *EasyPostValidator {
	return &EasyPostValidator{client: client, country: "US", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

var springfield = address.ParsedAddress{
	Name:    "Jane Doe",
	Street1: "123 Main St",
	City:    "Springfield",
	State:   "IL",
	Zip:     "62704",
}

func TestNewEasyPostValidator_RequiresAPIKey(t *testing.T) {
	_, err := NewEasyPostValidator(EasyPostConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	v, err := NewEasyPostValidator(EasyPostConfig{APIKey: "EZTK_test", Country: "CA"})
	require.NoError(t, err)
	assert.Equal(t, "CA", v.country)
}

func TestEasyPostValidator_Deliverable(t *testing.T) {
	client := &fakeAddressVerifier{out: &easypost.Address{
		Street1: "123 MAIN ST",
		City:    "SPRINGFIELD",
		State:   "IL",
		Zip:     "62704-1234",
		Verifications: &easypost.AddressVerifications{
			Delivery: &easypost.AddressVerification{Success: true},
		},
	}}

	res, err := newTestValidator(client).Validate(context.Background(), springfield)
	require.NoError(t, err)

	assert.True(t, client.opts.Verify)
	assert.Equal(t, "US", client.got.Country)
	assert.Equal(t, "123 Main St", client.got.Street1)

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, address.ParsedAddress{
		Name:    "Jane Doe",
		Street1: "123 MAIN ST",
		City:    "SPRINGFIELD",
		State:   "IL",
		Zip:     "62704-1234",
	}, *res.NormalizedAddress)
}

func TestEasyPostValidator_Undeliverable(t *testing.T) {
	tests := []struct {
		name   string
		errors []*easypost.AddressVerificationFieldError
		want   []address.ValidationError
	}{
		{
			name: "field errors",
			errors: []*easypost.AddressVerificationFieldError{
				{Code: "E.ADDRESS.NOT_FOUND", Field: "address", Message: "Address not found"},
				{Code: "E.HOUSE_NUMBER.INVALID", Field: "street1", Message: "House number is invalid"},
				{Code: "E.SECONDARY_INFORMATION.MISSING", Field: "secondary", Message: "Missing apartment number"},
			},
			want: []address.ValidationError{
				{Field: "address", Message: "Address not found"},
				{Field: "street1", Message: "House number is invalid"},
				{Field: "address", Message: "Missing apartment number"},
			},
		},
		{
			name: "no details",
			want: []address.ValidationError{
				{Field: "address", Message: "Address could not be verified"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeAddressVerifier{out: &easypost.Address{
				Verifications: &easypost.AddressVerifications{
					Delivery: &easypost.AddressVerification{Success: false, Errors: tt.errors},
				},
			}}

			res, err := newTestValidator(client).Validate(context.Background(), springfield)
			require.NoError(t, err)
			assert.False(t, res.IsValid)
			assert.Equal(t, tt.want, res.Errors)
			assert.Equal(t, springfield, *res.NormalizedAddress)
		})
	}
}

func TestEasyPostValidator_APIError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := newTestValidator(&fakeAddressVerifier{err: boom}).Validate(context.Background(), springfield)
	assert.ErrorIs(t, err, boom)
}

func TestEasyPostValidator_Chained(t *testing.T) {
	client := &fakeAddressVerifier{out: &easypost.Address{
		Verifications: &easypost.AddressVerifications{
			Delivery: &easypost.AddressVerification{Success: true},
		},
	}}
	v := address.Chain(address.NewBasicValidator(), newTestValidator(client))

	res, err := v.Validate(context.Background(), address.ParsedAddress{Street1: "123 Main St", City: "Springfield"})
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Nil(t, client.got, "invalid addresses never reach the API")

	addr := springfield
	addr.State = "Illinois"
	res, err = v.Validate(context.Background(), addr)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, "IL", client.got.State)
}
