package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/usagelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParse_Text(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("Jane Doe\n123 Main St\nSpringfield, IL 62704\n")

	require.NoError(t, runParse(in, &out, address.NewKeywordParser(), false))

	var got address.ParsedAddress
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, address.ParsedAddress{
		Name:    "Jane Doe",
		Street1: "123 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62704",
	}, got)
}

func TestRunParse_JSONValues(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`["123 Main St\nSpringfield, IL 62704", null, 42]`)

	require.NoError(t, runParse(in, &out, address.NewKeywordParser(), true))

	var got []address.ParsedAddress
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Springfield", got[0].City)
	assert.True(t, got[1].IsEmpty())
	assert.True(t, got[2].IsEmpty())
}

func TestRunParse_JSONRejectsObject(t *testing.T) {
	var out bytes.Buffer
	err := runParse(strings.NewReader(`{"a": 1}`), &out, address.NewKeywordParser(), true)
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printUsage(&out, nil))
	assert.Equal(t, "No commands recorded.\n", out.String())

	out.Reset()
	require.NoError(t, printUsage(&out, []usagelog.Entry{{
		CommandType: usagelog.CommandParseAddress,
		UserID:      "U1",
		ChannelID:   "C1",
		Text:        "Jane Doe\n123 Main St",
		Timestamp:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "TIME"))
	assert.Contains(t, lines[1], "2024-03-01T12:00:00Z")
	assert.Contains(t, lines[1], "parse_address")
	assert.Contains(t, lines[1], "Jane Doe 123 Main St")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b", oneLine("a\nb", 10))
	assert.Equal(t, "abcdefg...", oneLine("abcdefghijklmnop", 10))
}
