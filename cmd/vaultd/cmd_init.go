package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/config"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/owners"
	"github.com/spf13/cobra"
)

// InitOptions holds flags of the init command.
type InitOptions struct {
	*RootOptions
	Owners  []string
	Quorum  uint32
	Genesis string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault",
		Long: `Create a new vault in the home directory.

The owners are given either with --owner (repeated) and --quorum, or with
--genesis pointing to a JSON document with an "owners" section in its
app_state. The owner set can never change afterwards.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Owners, "owner", nil, "owner address, repeat for every owner")
	cmd.Flags().Uint32Var(&opts.Quorum, "quorum", 1, "number of confirmations required to execute")
	cmd.Flags().StringVar(&opts.Genesis, "genesis", "", "genesis file to read the owners from")
	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	if opts.Genesis != "" && len(opts.Owners) > 0 {
		return errors.Wrap(errors.ErrInvalidInput, "use either --genesis or --owner")
	}
	if err := os.MkdirAll(opts.Home, 0700); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfiguration, "create home: %s", err)
	}
	cfgPath := filepath.Join(opts.Home, config.FileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Write(cfgPath, config.Default()); err != nil {
			return err
		}
	}

	st, _, logger, err := openStore(opts.Home, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer st.Close()
	db := st.Adapter()

	if opts.Genesis != "" {
		gen, err := vault.LoadGenesis(opts.Genesis)
		if err != nil {
			return err
		}
		var initializer owners.Initializer
		if err := initializer.FromGenesis(gen.AppState, db); err != nil {
			return err
		}
	} else {
		addrs := make([]vault.Address, 0, len(opts.Owners))
		for _, o := range opts.Owners {
			addr, err := parseAddress(o)
			if err != nil {
				return errors.Wrap(err, "owner")
			}
			addrs = append(addrs, addr)
		}
		reg, err := owners.NewRegistry(addrs, opts.Quorum)
		if err != nil {
			return err
		}
		if err := owners.Save(db, reg); err != nil {
			return err
		}
	}

	reg, err := owners.Load(db)
	if err != nil {
		return err
	}
	id, err := st.Commit()
	if err != nil {
		return err
	}
	logger.Info("vault initialized", "home", opts.Home, "version", id.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "vault with %d owners, quorum %d\n", reg.OwnerCount(), reg.Quorum())
	return nil
}

func parseAddress(enc string) (vault.Address, error) {
	addr, err := vault.ParseAddress(enc)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}
