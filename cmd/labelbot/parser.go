//go:build !libpostal

package main

import "github.com/dukerupert/labelbot/internal/address"

const parserName = "keyword"

func newParser() address.Parser {
	return address.NewKeywordParser()
}
