package main

import (
	"context"
	"fmt"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/x/cash"
	"github.com/iov-one/quickex/x/escrow"
	"github.com/spf13/cobra"
)

// NewSendCommand creates the send command.
func NewSendCommand(opts *RootOptions) *cobra.Command {
	var keyName, to, amount, memo string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer tokens from a key to an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(opts.Home, keyName)
			if err != nil {
				return err
			}
			dest, err := parseAddress(opts.Home, to)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			value, err := coin.ParseHumanFormat(amount)
			if err != nil {
				return errors.Wrap(err, "amount")
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			msg := &cash.SendMsg{
				Metadata:    &quickex.Metadata{Schema: 1},
				Source:      key.PublicKey().Address(),
				Destination: dest,
				Ticker:      value.Ticker,
				Amount:      &value.Amount,
				Memo:        memo,
			}
			if _, err := n.submit(context.Background(), msg, key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", value, dest)
			return err
		},
	}
	cmd.Flags().StringVar(&keyName, "key", "", "name of the signing key")
	cmd.Flags().StringVar(&to, "to", "", "recipient address or @keyname")
	cmd.Flags().StringVar(&amount, "amount", "", `amount with ticker, ie. "10 QEX"`)
	cmd.Flags().StringVar(&memo, "memo", "", "optional memo")
	return cmd
}

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address|@keyname|custody>",
		Short: "Print all tokens held by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				addr quickex.Address
				err  error
			)
			if args[0] == "custody" {
				addr = escrow.CustodyAddress()
			} else if addr, err = parseAddress(opts.Home, args[0]); err != nil {
				return err
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			var coins []coin.Coin
			err = n.engine.Read(func(db quickex.ReadOnlyKVStore) error {
				var err error
				coins, err = cash.NewController(cash.NewBucket()).Balance(db, addr)
				return err
			})
			if err != nil {
				return err
			}
			if coins == nil {
				coins = []coin.Coin{}
			}
			return printJSON(cmd.OutOrStdout(), coins)
		},
	}
}
