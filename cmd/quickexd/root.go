package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Home     string
	LogLevel string
	Debug    bool
}

// NewRootCommand creates the root command of the quickexd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "quickexd",
		Short:         "Commitment based escrow node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Home, "home", defaultHome(), "directory for configuration, keys and data")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level (debug|info|error|none)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "show internal error details and stack traces")

	cmd.AddCommand(
		NewInitCommand(opts),
		NewKeysCommand(opts),
		NewCommitmentCommand(opts),
		NewDepositCommand(opts),
		NewWithdrawCommand(opts),
		NewGateCommand(opts),
		NewShowCommand(opts),
		NewListCommand(opts),
		NewEventsCommand(opts),
		NewSendCommand(opts),
		NewBalanceCommand(opts),
		NewVersionCommand(),
	)
	return cmd
}

func defaultHome() string {
	if h := os.Getenv("QUICKEX_HOME"); h != "" {
		return h
	}
	return filepath.Join(os.Getenv("HOME"), ".quickexd")
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize output: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
