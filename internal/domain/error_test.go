package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "label.quote", Message: "invalid input"},
			expected: "label.quote: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EUNAVAILABLE,
				Op:      "label.quote",
				Message: "rates unavailable",
				Err:     errors.New("connection reset"),
			},
			expected: "label.quote: rates unavailable: connection reset",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to store",
				Err:     errors.New("disk full"),
			},
			expected: "failed to store: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Code: EINTERNAL, Message: "wrapped", Err: underlying}

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Error.Unwrap() = %v, want %v", unwrapped, underlying)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: EINVALID, Message: "test"}, EINVALID},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", &Error{Code: ENOTFOUND, Message: "test"}), ENOTFOUND},
		{"validation error", NewValidationError("parcel.validate", "weight", "required"), EINVALID},
		{"non-domain error", errors.New("some error"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error with message", &Error{Code: EINVALID, Message: "rate id is required"}, "rate id is required"},
		{"unavailable keeps message", Unavailable(errors.New("timeout"), "label.quote", "The shipping service did not respond"), "The shipping service did not respond"},
		{"internal error hides message", &Error{Code: EINTERNAL, Message: "api key sk_live_123 rejected"}, "An internal error occurred. Please try again later."},
		{"validation error", NewValidationError("x", "zip", "bad"), "Please correct the highlighted fields."},
		{"non-domain error returns generic message", errors.New("some internal detail"), "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error with op", &Error{Code: EINVALID, Op: "label.purchase", Message: "test"}, "label.purchase"},
		{"domain error without op", &Error{Code: EINVALID, Message: "test"}, ""},
		{"validation error op", NewValidationError("parcel.validate", "weight", "required"), "parcel.validate"},
		{"non-domain error", errors.New("test"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorOp(tt.err); got != tt.expected {
				t.Errorf("ErrorOp() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "parcel.validate", "unknown unit: %s", "furlong")

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Op != "parcel.validate" {
		t.Errorf("Op = %q, want %q", domainErr.Op, "parcel.validate")
	}
	if domainErr.Message != "unknown unit: furlong" {
		t.Errorf("Message = %q, want %q", domainErr.Message, "unknown unit: furlong")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("io error")
		err := WrapError(underlying, EINTERNAL, "label.archive", "failed to store label")

		var domainErr *Error
		if !errors.As(err, &domainErr) {
			t.Fatal("WrapError should return *Error")
		}
		if domainErr.Code != EINTERNAL {
			t.Errorf("Code = %q, want %q", domainErr.Code, EINTERNAL)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		expected bool
	}{
		{"matching code", &Error{Code: ENOTFOUND}, ENOTFOUND, true},
		{"non-matching code", &Error{Code: EINVALID}, ENOTFOUND, false},
		{"non-domain error matches EINTERNAL", errors.New("test"), EINTERNAL, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("label.quote", "from_zip", "ZIP code is required")

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatal("NewValidationError should return *ValidationError")
		}
		if msg := ve.Fields["from_zip"]; msg != "ZIP code is required" {
			t.Errorf("Fields[from_zip] = %q, want %q", msg, "ZIP code is required")
		}

		expected := "label.quote: from_zip: ZIP code is required"
		if ve.Error() != expected {
			t.Errorf("Error() = %q, want %q", ve.Error(), expected)
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("parcel.validate", "length", "required")
		err = AddFieldError(err, "weight", "must be positive")

		fields := GetValidationFields(err)
		if len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
		if err.Error() != "parcel.validate: validation failed for 2 fields" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("add field to nil error", func(t *testing.T) {
		err := AddFieldError(nil, "zip", "required")
		if !IsValidationError(err) {
			t.Fatal("AddFieldError(nil) should return *ValidationError")
		}
	})

	t.Run("non-validation error has no fields", func(t *testing.T) {
		if fields := GetValidationFields(errors.New("test")); fields != nil {
			t.Errorf("GetValidationFields should return nil for non-validation error")
		}
	})
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("label.purchase", "rate", "rate_123"), ENOTFOUND},
		{"Unauthorized", Unauthorized("slack.verify", "bad signature"), EUNAUTHORIZED},
		{"Invalid", Invalid("label.purchase", "rate id is required"), EINVALID},
		{"Unavailable", Unavailable(errors.New("timeout"), "label.quote", "try again"), EUNAVAILABLE},
		{"Internal", Internal(errors.New("disk"), "label.archive", "failed"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("%s code = %q, want %q", tt.name, got, tt.code)
			}
		})
	}
}
