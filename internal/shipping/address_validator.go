package shipping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EasyPost/easypost-go/v5"
	"github.com/dukerupert/labelbot/internal/address"
)

// addressVerifier is the part of the EasyPost client used to verify addresses.
type addressVerifier interface {
	CreateAddressWithContext(ctx context.Context, in *easypost.Address, opts *easypost.CreateAddressOptions) (*easypost.Address, error)
}

// EasyPostValidator checks that an address is deliverable using EasyPost
// address verification. Chain it after address.BasicValidator so only well
// formed addresses reach the API.
type EasyPostValidator struct {
	client  addressVerifier
	country string
	logger  *slog.Logger
}

// NewEasyPostValidator creates a validator from the provider configuration.
func NewEasyPostValidator(cfg EasyPostConfig) (*EasyPostValidator, error) {
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

	return &EasyPostValidator{
		client:  easypost.New(cfg.APIKey),
		country: country,
		logger:  logger,
	}, nil
}

// Validate verifies delivery for addr. The corrected address EasyPost returns
// is the normalized address, with the parsed name and company kept.
func (v *EasyPostValidator) Validate(ctx context.Context, addr address.ParsedAddress) (*address.ValidationResult, error) {
	logger := v.logger.With(
		"city", addr.City,
		"state", addr.State,
		"zip", addr.Zip,
	)
	logger.Info("verifying address")

	verified, err := v.client.CreateAddressWithContext(ctx, toEasyPostAddress(addr, v.country), &easypost.CreateAddressOptions{
		Verify: true,
	})
	if err != nil {
		logger.Error("failed to verify address", "error", err)
		return nil, fmt.Errorf("failed to verify address: %w", err)
	}

	normalized := fromEasyPostAddress(verified, addr)
	result := &address.ValidationResult{
		IsValid:           true,
		NormalizedAddress: &normalized,
	}

	if verified.Verifications != nil && verified.Verifications.Delivery != nil && !verified.Verifications.Delivery.Success {
		result.IsValid = false
		for _, e := range verified.Verifications.Delivery.Errors {
			if e == nil {
				continue
			}
			result.Errors = append(result.Errors, address.ValidationError{
				Field:   verificationField(e.Field),
				Message: e.Message,
			})
		}
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, address.ValidationError{
				Field:   "address",
				Message: "Address could not be verified",
			})
		}
		logger.Info("address not deliverable", "errors", len(result.Errors))
	}

	return result, nil
}

// fromEasyPostAddress copies the verified street fields over the parsed
// address. Empty fields fall back to what was parsed.
func fromEasyPostAddress(verified *easypost.Address, parsed address.ParsedAddress) address.ParsedAddress {
	if verified == nil {
		return parsed
	}

	out := parsed
	out.Street1 = orDefault(verified.Street1, parsed.Street1)
	out.Street2 = orDefault(verified.Street2, parsed.Street2)
	out.City = orDefault(verified.City, parsed.City)
	out.State = orDefault(verified.State, parsed.State)
	out.Zip = orDefault(verified.Zip, parsed.Zip)
	return out
}

func verificationField(field string) string {
	switch field {
	case "street1", "street2", "city", "state", "zip":
		return field
	default:
		return "address"
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
