package service

import (
	"errors"

	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/dukerupert/labelbot/internal/shipping"
)

// Label workflow errors
var (
	ErrRateRequired  = domain.Errorf(domain.EINVALID, "label.purchase", "Choose a shipping rate")
	ErrLabelTooLarge = domain.Errorf(domain.EUNAVAILABLE, "label.download", "The label document is too large")
)

const msgProviderUnavailable = "The shipping service could not be reached. Please try again."

// fromShippingError converts a provider error into a domain error.
// Coded shipping errors keep their code and message; anything else is
// reported as unavailable.
func fromShippingError(err error, op string) error {
	if err == nil {
		return nil
	}

	var se *shipping.ShippingError
	if errors.As(err, &se) {
		return &domain.Error{
			Code:    se.ErrorCode(),
			Op:      op,
			Message: se.ErrorMessage(),
			Err:     err,
		}
	}

	return domain.Unavailable(err, op, msgProviderUnavailable)
}
