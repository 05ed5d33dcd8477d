package address

import (
	"context"
)

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	ValidateFunc func(ctx context.Context, addr ParsedAddress) (*ValidationResult, error)
}

// NewMockValidator creates a new mock address validator for testing.
func NewMockValidator() *MockValidator {
	return &MockValidator{}
}

// Validate delegates to the configured function or reports the address as valid.
func (m *MockValidator) Validate(ctx context.Context, addr ParsedAddress) (*ValidationResult, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, addr)
	}
	return &ValidationResult{IsValid: true, NormalizedAddress: &addr}, nil
}
