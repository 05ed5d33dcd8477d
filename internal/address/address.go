package address

import "context"

// ParsedAddress is the structured result of parsing a free-text address block.
// Every field is empty when it could not be determined.
type ParsedAddress struct {
	Name    string `json:"name" yaml:"name"`
	Company string `json:"company" yaml:"company"`
	Street1 string `json:"street1" yaml:"street1"`
	Street2 string `json:"street2" yaml:"street2"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Zip     string `json:"zip" yaml:"zip"`
}

// IsEmpty reports whether no field was populated.
func (a ParsedAddress) IsEmpty() bool {
	return a == ParsedAddress{}
}

// Complete reports whether the address carries the fields a carrier needs
// to rate a shipment.
func (a ParsedAddress) Complete() bool {
	return a.Street1 != "" && a.City != "" && a.State != "" && a.Zip != ""
}

// Parser turns a raw multi-line address block into a ParsedAddress.
// Implementations must be total: any input yields a value, never a panic.
type Parser interface {
	Parse(raw string) ParsedAddress
}

// ParserFunc adapts an ordinary function to the Parser interface.
type ParserFunc func(raw string) ParsedAddress

// Parse calls f(raw).
func (f ParserFunc) Parse(raw string) ParsedAddress {
	return f(raw)
}

// Validator defines the interface for address validation.
// Parsing never fails; validation is where a caller decides whether a parsed
// address is good enough to ship to.
type Validator interface {
	// Validate checks that an address has the fields and formats required
	// for rating. Even if IsValid is false, NormalizedAddress may contain
	// corrections.
	Validate(ctx context.Context, addr ParsedAddress) (*ValidationResult, error)
}

// ValidationResult contains the outcome of address validation.
type ValidationResult struct {
	IsValid           bool
	NormalizedAddress *ParsedAddress
	Errors            []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}
