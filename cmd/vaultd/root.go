package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Home string
}

func defaultHome() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".vaultd")
}

// NewRootCommand creates the root command of the vaultd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vaultd",
		Short: "Multi-owner custody vault",
		Long: `A vault holds value that can only leave it when enough of its owners
approve. Owners submit transfers, confirm or revoke their approval, and
any owner executes a transfer once the quorum is reached.

All state lives in the --home directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Home, "home", defaultHome(), "directory to store files under")

	cmd.AddCommand(
		NewInitCommand(opts),
		NewSubmitCommand(opts),
		NewConfirmCommand(opts),
		NewRevokeCommand(opts),
		NewExecuteCommand(opts),
		NewDepositCommand(opts),
		NewShowCommand(opts),
		NewListCommand(opts),
		NewOwnersCommand(opts),
		NewBalanceCommand(opts),
		NewAccountCommand(opts),
		NewVersionCommand(),
	)
	return cmd
}
