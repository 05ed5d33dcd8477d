package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/spf13/cobra"
)

func createParseCmd() *cobra.Command {
	var jsonInput bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a free-text address and print its fields as JSON",
		Long: `Parse reads one address block from file, or stdin when no file is given,
and prints the parsed fields.

With --json the input is a JSON array of values. Each string is parsed as an
address block; null and non-string values yield an empty address.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runParse(in, cmd.OutOrStdout(), newParser(), jsonInput)
		},
	}

	cmd.Flags().BoolVar(&jsonInput, "json", false, "Read a JSON array of raw address values")

	return cmd
}

func runParse(in io.Reader, out io.Writer, parser address.Parser, jsonInput bool) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if !jsonInput {
		raw, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return enc.Encode(parser.Parse(string(raw)))
	}

	var values []any
	if err := json.NewDecoder(in).Decode(&values); err != nil {
		return fmt.Errorf("input must be a JSON array: %w", err)
	}

	parsed := make([]address.ParsedAddress, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			parsed = append(parsed, parser.Parse(s))
			continue
		}
		parsed = append(parsed, address.FromValue(v))
	}
	return enc.Encode(parsed)
}
