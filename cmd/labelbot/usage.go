package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dukerupert/labelbot/internal/usagelog"
	"github.com/spf13/cobra"
)

func createUsageCmd() *cobra.Command {
	var (
		path  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Print the most recent commands from the usage log",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := usagelog.New(path)
			if err != nil {
				return err
			}
			entries, err := log.Recent(limit)
			if err != nil {
				return err
			}
			return printUsage(cmd.OutOrStdout(), entries)
		},
	}

	defaultPath := os.Getenv("USAGE_LOG_PATH")
	if defaultPath == "" {
		defaultPath = "./data/usage.json"
	}

	cmd.Flags().StringVar(&path, "file", defaultPath, "Usage log file")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to print")

	return cmd
}

func printUsage(out io.Writer, entries []usagelog.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No commands recorded.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tUSER\tCHANNEL\tTEXT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339),
			e.CommandType,
			e.UserID,
			e.ChannelID,
			oneLine(e.Text, 40),
		)
	}
	return w.Flush()
}

// oneLine flattens text onto one line and truncates it to max runes.
func oneLine(text string, max int) string {
	r := []rune(text)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return string(r)
}
