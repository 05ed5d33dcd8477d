package address

import (
	"context"
	"regexp"
	"strings"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// BasicValidator performs format validation without external API calls.
// It checks required fields, ZIP code format and the state, normalizing full
// state names to their two-letter code.
type BasicValidator struct{}

// NewBasicValidator creates a new basic address validator.
func NewBasicValidator() Validator {
	return &BasicValidator{}
}

// Validate performs basic validation checks on the address.
func (v *BasicValidator) Validate(ctx context.Context, addr ParsedAddress) (*ValidationResult, error) {
	normalized := addr
	var errs []ValidationError

	if addr.Street1 == "" {
		errs = append(errs, ValidationError{Field: "street1", Message: "Street address is required"})
	}
	if addr.City == "" {
		errs = append(errs, ValidationError{Field: "city", Message: "City is required"})
	}

	switch code, ok := normalizeState(addr.State); {
	case addr.State == "":
		errs = append(errs, ValidationError{Field: "state", Message: "State is required"})
	case !ok:
		errs = append(errs, ValidationError{Field: "state", Message: "State must be a U.S. state or two-letter code"})
	default:
		normalized.State = code
	}

	switch {
	case addr.Zip == "":
		errs = append(errs, ValidationError{Field: "zip", Message: "ZIP code is required"})
	case !zipPattern.MatchString(addr.Zip):
		errs = append(errs, ValidationError{Field: "zip", Message: "ZIP code must be 5 digits or ZIP+4"})
	}

	return &ValidationResult{
		IsValid:           len(errs) == 0,
		NormalizedAddress: &normalized,
		Errors:            errs,
	}, nil
}

// normalizeState returns the two-letter code for a state code or name.
func normalizeState(s string) (string, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))
	if len(s) == 2 {
		code := strings.ToUpper(s)
		return code, stateCodes[code]
	}
	code, ok := states[strings.ToLower(s)]
	return code, ok
}
