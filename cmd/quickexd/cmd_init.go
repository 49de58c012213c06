package main

import (
	"fmt"

	"github.com/iov-one/quickex/app"
	quickexd "github.com/iov-one/quickex/cmd/quickexd/app"
	"github.com/iov-one/quickex/errors"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	var genesisPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node state from a genesis file",
		Long: `Initialize the node state from a genesis file.

A default configuration is written to the home directory unless one exists.
The genesis file defines the chain id, initial balances and the escrow
configuration:

  {
    "chain_id": "quickex-local",
    "app_state": {
      "cash": [{"address": "<hex or bech32>", "coins": ["1000 QEX"]}],
      "conf": {"escrow": {
        "metadata": {"schema": 1},
        "owner": "<admin address>",
        "privacy_enabled": true,
        "withdraw_enabled": true
      }}
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(genesisPath)
			if err != nil {
				return err
			}
			if _, err := LoadConfig(opts.Home); errors.ErrNotFound.Is(err) {
				if err := WriteConfig(opts.Home, DefaultConfig()); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			if err := n.engine.InitChain(gen, quickexd.Initializers()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "initialized chain %s in %s\n", gen.ChainID, opts.Home)
			return err
		},
	}
	cmd.Flags().StringVar(&genesisPath, "genesis", "genesis.json", "path to the genesis file")
	return cmd
}
