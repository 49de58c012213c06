package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/quickex/crypto"
	"github.com/iov-one/quickex/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

// NewKeysCommand creates the keys command with its subcommands.
func NewKeysCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage private keys stored in the home directory",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new <name>",
			Short: "Generate a new private key",
			Long: `Generate a new private key.

A new file with binary content containing the private key is created. This
command fails if a key with the same name already exists.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := createKey(opts.Home, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
				return err
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Print the address of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := loadKey(opts.Home, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
				return err
			},
		},
	)
	return cmd
}

func keyPath(home, name string) string {
	return filepath.Join(home, "keys", name+".key")
}

func createKey(home, name string) (*crypto.PrivateKey, error) {
	path := keyPath(home, name)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return nil, errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create keys directory")
	}
	key := crypto.GenPrivKeyEd25519()
	if err := ioutil.WriteFile(path, key.Ed25519, 0600); err != nil {
		return nil, errors.Wrap(err, "write private key")
	}
	return key, nil
}

func loadKey(home, name string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(keyPath(home, name))
	if err != nil {
		return nil, errors.Wrap(err, "read private key file")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}
