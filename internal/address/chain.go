package address

import "context"

type chain []Validator

// Chain runs validators in order. Each one sees the previous one's
// normalized address, and the first invalid result is returned as is.
func Chain(validators ...Validator) Validator {
	return chain(validators)
}

func (c chain) Validate(ctx context.Context, addr ParsedAddress) (*ValidationResult, error) {
	result := &ValidationResult{IsValid: true, NormalizedAddress: &addr}
	for _, v := range c {
		res, err := v.Validate(ctx, addr)
		if err != nil {
			return nil, err
		}
		if !res.IsValid {
			return res, nil
		}
		if res.NormalizedAddress != nil {
			addr = *res.NormalizedAddress
		}
		result = res
	}
	result.NormalizedAddress = &addr
	return result, nil
}
