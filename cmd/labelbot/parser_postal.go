//go:build libpostal

package main

import "github.com/dukerupert/labelbot/internal/address"

const parserName = "libpostal"

func newParser() address.Parser {
	return address.NewPostalParser()
}
