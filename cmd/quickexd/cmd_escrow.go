package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/coin"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/x/escrow"
	"github.com/spf13/cobra"
)

// parseAddress accepts any address text form or "@name" referencing a key
// stored in the home directory.
func parseAddress(home, s string) (quickex.Address, error) {
	if strings.HasPrefix(s, "@") {
		key, err := loadKey(home, s[1:])
		if err != nil {
			return nil, err
		}
		return key.PublicKey().Address(), nil
	}
	addr, err := quickex.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func parseSalt(s string) ([]byte, error) {
	salt, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "salt must be hex encoded")
	}
	return salt, escrow.ValidateSalt(salt)
}

type commitmentOutput struct {
	Owner      quickex.Address   `json:"owner"`
	Amount     coin.Amount       `json:"amount"`
	Salt       string            `json:"salt"`
	Commitment escrow.Commitment `json:"commitment"`
}

// NewCommitmentCommand creates the commitment command.
func NewCommitmentCommand(opts *RootOptions) *cobra.Command {
	var owner, amount, salt string

	cmd := &cobra.Command{
		Use:   "commitment",
		Short: "Compute a commitment for an owner, amount and salt",
		Long: `Compute a commitment for an owner, amount and salt.

When no salt is given a random one is generated. Keep the salt secret: anyone
knowing the owner, the amount and the salt can withdraw the funds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerAddr, err := parseAddress(opts.Home, owner)
			if err != nil {
				return errors.Wrap(err, "owner")
			}
			value, err := coin.ParseAmount(amount)
			if err != nil {
				return errors.Wrap(err, "amount")
			}
			var rawSalt []byte
			if salt == "" {
				rawSalt, err = escrow.NewSalt()
			} else {
				rawSalt, err = parseSalt(salt)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), commitmentOutput{
				Owner:      ownerAddr,
				Amount:     value,
				Salt:       hex.EncodeToString(rawSalt),
				Commitment: escrow.Derive(ownerAddr, value, rawSalt),
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address or @keyname")
	cmd.Flags().StringVar(&amount, "amount", "", "amount as a decimal integer")
	cmd.Flags().StringVar(&salt, "salt", "", "hex encoded 32 byte salt, random if empty")
	return cmd
}

// NewDepositCommand creates the deposit command.
func NewDepositCommand(opts *RootOptions) *cobra.Command {
	var keyName, token, amount, commitment string

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Lock funds of a key under a commitment",
		Long: `Lock funds of a key under a commitment.

The signing key becomes the owner of the escrow entry. Build the commitment
with "quickexd commitment --owner @<key> --amount <amount>" using the same
amount, or the funds cannot be withdrawn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(opts.Home, keyName)
			if err != nil {
				return err
			}
			value, err := coin.ParseAmount(amount)
			if err != nil {
				return errors.Wrap(err, "amount")
			}
			c, err := escrow.ParseCommitment(commitment)
			if err != nil {
				return err
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			msg := &escrow.DepositMsg{
				Metadata:   &quickex.Metadata{Schema: 1},
				Token:      token,
				Amount:     &value,
				Commitment: c.Bytes(),
			}
			if _, err := n.submit(context.Background(), msg, key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deposited %s %s under %s\n", value, token, c)
			return err
		},
	}
	cmd.Flags().StringVar(&keyName, "key", "", "name of the signing key")
	cmd.Flags().StringVar(&token, "token", "", "token ticker")
	cmd.Flags().StringVar(&amount, "amount", "", "amount as a decimal integer")
	cmd.Flags().StringVar(&commitment, "commitment", "", "hex encoded commitment")
	return cmd
}

// NewWithdrawCommand creates the withdraw command.
func NewWithdrawCommand(opts *RootOptions) *cobra.Command {
	var owner, amount, salt, recipient string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Release escrowed funds by revealing the commitment preimage",
		Long: `Release escrowed funds by revealing the commitment preimage.

No signature is required. The funds are sent to the recipient.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerAddr, err := parseAddress(opts.Home, owner)
			if err != nil {
				return errors.Wrap(err, "owner")
			}
			recipientAddr, err := parseAddress(opts.Home, recipient)
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			value, err := coin.ParseAmount(amount)
			if err != nil {
				return errors.Wrap(err, "amount")
			}
			rawSalt, err := parseSalt(salt)
			if err != nil {
				return err
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			msg := &escrow.WithdrawMsg{
				Metadata:  &quickex.Metadata{Schema: 1},
				Owner:     ownerAddr,
				Amount:    &value,
				Salt:      rawSalt,
				Recipient: recipientAddr,
			}
			if _, err := n.submit(context.Background(), msg); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "withdrawn %s to %s\n", msg.Commitment(), recipientAddr)
			return err
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address or @keyname")
	cmd.Flags().StringVar(&amount, "amount", "", "amount as a decimal integer")
	cmd.Flags().StringVar(&salt, "salt", "", "hex encoded 32 byte salt")
	cmd.Flags().StringVar(&recipient, "to", "", "recipient address or @keyname")
	return cmd
}

// NewGateCommand creates the gate command.
func NewGateCommand(opts *RootOptions) *cobra.Command {
	var keyName string

	cmd := &cobra.Command{
		Use:   "gate <privacy|withdraw> <on|off>",
		Short: "Open or close a gate, requires the administrator key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, err := escrow.ParseGate(args[0])
			if err != nil {
				return err
			}
			var enabled bool
			switch args[1] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return errors.Wrapf(errors.ErrInput, "state must be on or off, got %q", args[1])
			}
			key, err := loadKey(opts.Home, keyName)
			if err != nil {
				return err
			}

			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			msg := &escrow.SetGateMsg{
				Metadata: &quickex.Metadata{Schema: 1},
				Gate:     gate,
				Enabled:  enabled,
			}
			if _, err := n.submit(context.Background(), msg, key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s gate is %s\n", gate, args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&keyName, "key", "", "name of the administrator key")
	return cmd
}

type entryOutput struct {
	Commitment escrow.Commitment   `json:"commitment"`
	Token      string              `json:"token"`
	Amount     coin.Amount         `json:"amount"`
	Owner      quickex.Address     `json:"owner"`
	Status     escrow.EscrowStatus `json:"status"`
	CreatedAt  quickex.UnixTime    `json:"created_at"`
}

func newEntryOutput(c escrow.Commitment, e *escrow.EscrowEntry) entryOutput {
	return entryOutput{
		Commitment: c,
		Token:      e.Token,
		Amount:     *e.Amount,
		Owner:      e.Owner,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <commitment>",
		Short: "Print an escrow entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := escrow.ParseCommitment(args[0])
			if err != nil {
				return err
			}
			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			var entry *escrow.EscrowEntry
			err = n.engine.Read(func(db quickex.ReadOnlyKVStore) error {
				var err error
				entry, err = escrowController().Escrow(db, c)
				return err
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newEntryOutput(c, entry))
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all escrow entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := openNode(opts)
			if err != nil {
				return err
			}
			defer n.Close()

			entries := []entryOutput{}
			err = n.engine.Read(func(db quickex.ReadOnlyKVStore) error {
				return escrow.NewBucket().Iterate(db, func(c escrow.Commitment, e *escrow.EscrowEntry) error {
					if status == "" || e.Status.String() == status {
						entries = append(entries, newEntryOutput(c, e))
					}
					return nil
				})
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only print entries in given status (pending|spent|expired)")
	return cmd
}

// escrowController returns a controller usable for queries only.
func escrowController() escrow.Controller {
	return escrow.NewController(escrow.NewBucket(), escrow.ConfigGates{}, nil, nil)
}
