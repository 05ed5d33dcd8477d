//go:build libpostal

package address

import (
	"strings"

	postal "github.com/openvenues/gopostal/parser"
)

// PostalParser parses addresses with libpostal's statistical model.
// libpostal has no notion of a recipient, so the name and company come from
// the keyword parser and libpostal overrides the street and locality fields
// it recognized.
//
// Building with this parser requires libpostal and the libpostal build tag.
type PostalParser struct{}

// NewPostalParser returns a libpostal-backed parser.
func NewPostalParser() Parser {
	return PostalParser{}
}

// Parse implements Parser.
func (PostalParser) Parse(raw string) ParsedAddress {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return ParsedAddress{}
	}

	addr := Parse(raw)

	var houseNumber, road, unit, poBox string
	for _, c := range postal.ParseAddress(strings.Join(lines, ", ")) {
		switch c.Label {
		case "house_number":
			houseNumber = c.Value
		case "road":
			road = c.Value
		case "unit", "level":
			unit = strings.TrimSpace(unit + " " + c.Value)
		case "po_box":
			poBox = c.Value
		case "city":
			addr.City = titleCase(c.Value)
		case "state":
			addr.State = strings.ToUpper(c.Value)
		case "postcode":
			addr.Zip = c.Value
		}
	}

	switch {
	case road != "":
		addr.Street1 = titleCase(strings.TrimSpace(houseNumber + " " + road))
		if unit != "" {
			addr.Street2 = titleCase(unit)
		}
	case poBox != "":
		addr.Street1 = strings.ToUpper(poBox)
	}

	return addr
}
