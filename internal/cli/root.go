// Package cli holds the csv2sendy commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "csv2sendy",
		Short: "Normalize contact spreadsheets for Sendy imports",
		Long: `csv2sendy cleans contact CSV exports (Brazilian Portuguese headers,
names, emails and phone numbers) into files ready for a Sendy list import.
It runs as a web UI with "serve" or converts a single file with "convert".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Overload lets a local .env win over the inherited environment.
			if err := godotenv.Overload(); err != nil {
				slog.Debug("no .env file loaded", "error", err)
			}
		},
	}
	root.AddCommand(newServeCmd(), newConvertCmd())
	return root
}

// Execute runs the root command with os.Args and exits non-zero on error.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}
