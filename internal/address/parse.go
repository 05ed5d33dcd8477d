package address

import (
	"strings"
)

// streetKeywords are matched as case-insensitive substrings anywhere in a
// line. There are no word boundaries, so "Streeter" matches "street".
var streetKeywords = []string{
	"st", "street",
	"ave", "avenue",
	"blvd", "boulevard",
	"rd", "road",
	"dr", "drive",
	"ln", "lane",
	"ter", "terrace",
	"way",
	"hwy", "highway",
	"pkwy", "parkway",
	"ct", "court",
	"cir", "circle",
	"pl", "place",
}

// KeywordParser classifies the lines of an address block by position and
// street-type keywords. It holds no state and is safe for concurrent use.
type KeywordParser struct{}

// NewKeywordParser returns the default keyword-driven parser.
func NewKeywordParser() Parser {
	return KeywordParser{}
}

// Parse implements Parser.
func (KeywordParser) Parse(raw string) ParsedAddress {
	return Parse(raw)
}

// Parse classifies a free-text address block into name, company, street,
// city, state and zip.
//
// The last non-blank line is always read as the city/state/zip line; the
// lines above it ("head lines") supply everything else. Parse never fails:
// fields it cannot determine are left empty.
func Parse(raw string) ParsedAddress {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return ParsedAddress{}
	}

	var addr ParsedAddress
	addr.City, addr.State, addr.Zip = parseLocality(lines[len(lines)-1])

	head := lines[:len(lines)-1]
	if len(head) == 0 {
		return addr
	}

	streetIndex := findStreetLine(head)

	switch {
	case streetIndex == 1:
		addr.Name = head[0]
	case streetIndex >= 2:
		// Lines between the company and the street are not assigned.
		addr.Name = head[0]
		addr.Company = head[1]
	}

	addr.Street1 = head[streetIndex]
	if rest := head[streetIndex+1:]; len(rest) > 0 {
		addr.Street2 = strings.Join(rest, ", ")
	}

	return addr
}

// FromValue parses v when it holds text and returns the empty address
// otherwise. It accepts string, *string and []byte; nil and every other type
// yield ParsedAddress{}.
func FromValue(v any) ParsedAddress {
	switch s := v.(type) {
	case string:
		return Parse(s)
	case *string:
		if s == nil {
			return ParsedAddress{}
		}
		return Parse(*s)
	case []byte:
		return Parse(string(s))
	default:
		return ParsedAddress{}
	}
}

// splitLines breaks raw into trimmed, non-empty lines, preserving order.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseLocality reads city, state and zip from the final line.
//
// With a comma, the text before the first comma is the city and the first
// and last whitespace tokens after it are state and zip. Without a comma,
// the last two tokens are state and zip and everything before them is the
// city; fewer than three tokens yields nothing.
func parseLocality(line string) (city, state, zip string) {
	if before, after, ok := strings.Cut(line, ","); ok {
		city = strings.TrimSpace(before)
		tokens := strings.Fields(after)
		switch {
		case len(tokens) >= 2:
			state = tokens[0]
			zip = tokens[len(tokens)-1]
		case len(tokens) == 1:
			state = tokens[0]
		}
		return city, state, zip
	}

	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return "", "", ""
	}
	n := len(tokens)
	return strings.Join(tokens[:n-2], " "), tokens[n-2], tokens[n-1]
}

// findStreetLine returns the index of the first head line containing a
// street keyword, or the index of the last head line when none does.
func findStreetLine(head []string) int {
	for i, line := range head {
		if looksLikeStreet(line) {
			return i
		}
	}
	return len(head) - 1
}

func looksLikeStreet(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range streetKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
