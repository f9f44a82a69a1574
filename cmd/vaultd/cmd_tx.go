package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
)

// TxOptions holds flags of the commands changing the vault.
type TxOptions struct {
	*RootOptions
	From    string
	To      string
	Amount  uint64
	Payload string
}

func addFromFlag(cmd *cobra.Command, opts *TxOptions) {
	cmd.Flags().StringVar(&opts.From, "from", "", "address of the caller")
	_ = cmd.MarkFlagRequired("from")
}

// withApp opens the vault, runs fn as caller and saves the result.
func withApp(cmd *cobra.Command, opts *TxOptions, fn func(ctx context.Context, a *app, caller vault.Address) error) error {
	caller, err := parseAddress(opts.From)
	if err != nil {
		return errors.Wrap(err, "from")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts.Home, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a, caller); err != nil {
		return err
	}
	return a.commit(ctx)
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TxOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Propose a transfer out of the vault",
		Long: `Propose a transfer out of the vault. Only owners may submit.

Prints the index of the new transaction. The proposal needs to be
confirmed by a quorum of owners before it can be executed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseAddress(opts.To)
			if err != nil {
				return errors.Wrap(err, "to")
			}
			payload, err := hex.DecodeString(opts.Payload)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "payload: %s", err)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app, caller vault.Address) error {
				index, err := a.engine.SubmitTransaction(ctx, caller, to, opts.Amount, payload)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), index)
				return nil
			})
		},
	}
	addFromFlag(cmd, opts)
	cmd.Flags().StringVar(&opts.To, "to", "", "recipient address")
	cmd.Flags().Uint64Var(&opts.Amount, "amount", 0, "amount to transfer")
	cmd.Flags().StringVar(&opts.Payload, "payload", "", "hex encoded data handed to the recipient")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

type indexOp func(a *app, ctx context.Context, caller vault.Address, index uint64) error

func newIndexCommand(rootOpts *RootOptions, use, short, long string, op indexOp) *cobra.Command {
	opts := &TxOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:           use + " <index>",
		Short:         short,
		Long:          long,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app, caller vault.Address) error {
				return op(a, ctx, caller, index)
			})
		},
	}
	addFromFlag(cmd, opts)
	return cmd
}

// NewConfirmCommand creates the confirm command.
func NewConfirmCommand(rootOpts *RootOptions) *cobra.Command {
	return newIndexCommand(rootOpts, "confirm", "Approve a transaction",
		"Record the approval of the caller for a transaction that was not executed yet.",
		func(a *app, ctx context.Context, caller vault.Address, index uint64) error {
			return a.engine.ConfirmTransaction(ctx, caller, index)
		})
}

// NewRevokeCommand creates the revoke command.
func NewRevokeCommand(rootOpts *RootOptions) *cobra.Command {
	return newIndexCommand(rootOpts, "revoke", "Withdraw an approval",
		"Withdraw the approval of the caller from a transaction that was not executed yet.",
		func(a *app, ctx context.Context, caller vault.Address, index uint64) error {
			return a.engine.RevokeConfirmation(ctx, caller, index)
		})
}

// NewExecuteCommand creates the execute command.
func NewExecuteCommand(rootOpts *RootOptions) *cobra.Command {
	return newIndexCommand(rootOpts, "execute", "Transfer the value of a confirmed transaction",
		`Transfer the value of a transaction confirmed by a quorum of owners.

If the vault balance does not cover the amount, nothing changes and the
transaction can be executed later.`,
		func(a *app, ctx context.Context, caller vault.Address, index uint64) error {
			return a.engine.ExecuteTransaction(ctx, caller, index)
		})
}

// NewDepositCommand creates the deposit command.
func NewDepositCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TxOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:           "deposit",
		Short:         "Add value to the vault",
		Long:          "Add value to the vault. Anyone may deposit.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, caller vault.Address) error {
				return a.engine.Deposit(ctx, caller, opts.Amount)
			})
		},
	}
	addFromFlag(cmd, opts)
	cmd.Flags().Uint64Var(&opts.Amount, "amount", 0, "amount to deposit")
	return cmd
}

func parseIndex(s string) (uint64, error) {
	index, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "index %q", s)
	}
	return index, nil
}
