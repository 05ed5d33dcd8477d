package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "labelbot",
		Short: "Slack bot that buys return shipping labels",
		Long: `labelbot answers Slack slash commands: it parses free-text addresses,
quotes carrier rates for a parcel and buys the chosen return label.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createUsageCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
