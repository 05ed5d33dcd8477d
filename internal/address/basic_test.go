package address_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicValidator_Validate(t *testing.T) {
	valid := address.ParsedAddress{
		Name:    "Jane Doe",
		Street1: "123 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62704",
	}

	tests := []struct {
		name       string
		modify     func(a *address.ParsedAddress)
		wantValid  bool
		wantFields []string
		wantState  string
	}{
		{
			name:      "complete address",
			modify:    func(a *address.ParsedAddress) {},
			wantValid: true,
			wantState: "IL",
		},
		{
			name:      "zip plus four",
			modify:    func(a *address.ParsedAddress) { a.Zip = "62704-1234" },
			wantValid: true,
			wantState: "IL",
		},
		{
			name:      "full state name is normalized",
			modify:    func(a *address.ParsedAddress) { a.State = "Illinois" },
			wantValid: true,
			wantState: "IL",
		},
		{
			name:      "lower-case code is normalized",
			modify:    func(a *address.ParsedAddress) { a.State = "il" },
			wantValid: true,
			wantState: "IL",
		},
		{
			name:       "unknown state code",
			modify:     func(a *address.ParsedAddress) { a.State = "ZZ" },
			wantFields: []string{"state"},
		},
		{
			name:       "malformed zip",
			modify:     func(a *address.ParsedAddress) { a.Zip = "6270" },
			wantFields: []string{"zip"},
		},
		{
			name:       "empty address",
			modify:     func(a *address.ParsedAddress) { *a = address.ParsedAddress{} },
			wantFields: []string{"street1", "city", "state", "zip"},
		},
	}

	v := address.NewBasicValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := valid
			tt.modify(&addr)

			result, err := v.Validate(context.Background(), addr)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.wantValid, result.IsValid)

			var fields []string
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.wantFields, fields)

			require.NotNil(t, result.NormalizedAddress)
			if tt.wantState != "" {
				assert.Equal(t, tt.wantState, result.NormalizedAddress.State)
			}
		})
	}
}

func TestBasicValidator_DoesNotRewriteOtherFields(t *testing.T) {
	addr := address.ParsedAddress{
		Name:    "jane doe",
		Street1: "123 main st",
		City:    "springfield",
		State:   "illinois",
		Zip:     "62704",
	}

	result, err := address.NewBasicValidator().Validate(context.Background(), addr)
	require.NoError(t, err)

	want := addr
	want.State = "IL"
	assert.Equal(t, want, *result.NormalizedAddress)
}

func TestMockValidator(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		m := address.NewMockValidator()
		result, err := m.Validate(context.Background(), address.ParsedAddress{City: "X"})
		require.NoError(t, err)
		assert.True(t, result.IsValid)
		assert.Equal(t, "X", result.NormalizedAddress.City)
	})

	t.Run("delegates to func", func(t *testing.T) {
		boom := errors.New("boom")
		m := address.NewMockValidator()
		m.ValidateFunc = func(ctx context.Context, addr address.ParsedAddress) (*address.ValidationResult, error) {
			return nil, boom
		}
		_, err := m.Validate(context.Background(), address.ParsedAddress{})
		assert.ErrorIs(t, err, boom)
	})
}
