package main

import (
	"context"

	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/eventlog"
	"github.com/spf13/cobra"
)

// NewEventsCommand creates the events command.
func NewEventsCommand(opts *RootOptions) *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print events from the journal, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig(opts.Home)
			if err != nil {
				return err
			}
			if conf.Journal == "" {
				return errors.Wrap(errors.ErrState, "event journal is disabled")
			}
			j, err := eventlog.OpenJournal(resolve(opts.Home, conf.Journal))
			if err != nil {
				return err
			}
			defer j.Close()

			records, err := j.List(context.Background(), kind, limit)
			if err != nil {
				return err
			}
			if records == nil {
				records = []eventlog.Record{}
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only print events of given kind, ie. Deposit")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of events, 0 for all")
	return cmd
}
