package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
)

type transactionView struct {
	Index             uint64          `json:"index"`
	Recipient         vault.Address   `json:"recipient"`
	Amount            uint64          `json:"amount"`
	Payload           string          `json:"payload,omitempty"`
	Executed          bool            `json:"executed"`
	ConfirmationCount uint32          `json:"confirmation_count"`
	ConfirmedBy       []vault.Address `json:"confirmed_by"`
}

type ownersView struct {
	Owners []vault.Address `json:"owners"`
	Quorum uint32          `json:"quorum"`
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

// withReadApp opens the vault for reading. Nothing is saved.
func withReadApp(cmd *cobra.Command, opts *RootOptions, fn func(a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts.Home, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func viewTransaction(a *app, index uint64) (*transactionView, error) {
	tx, err := a.engine.Transaction(index)
	if err != nil {
		return nil, err
	}
	confirmed, err := a.engine.Confirmations(index)
	if err != nil {
		return nil, err
	}
	if confirmed == nil {
		confirmed = []vault.Address{}
	}
	return &transactionView{
		Index:             index,
		Recipient:         tx.Recipient,
		Amount:            tx.Amount,
		Payload:           hex.EncodeToString(tx.Payload),
		Executed:          tx.Executed,
		ConfirmationCount: tx.ConfirmationCount,
		ConfirmedBy:       confirmed,
	}, nil
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <index>",
		Short:         "Print a transaction as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withReadApp(cmd, opts, func(a *app) error {
				v, err := viewTransaction(a, index)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), v)
			})
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "Print all transactions as JSON",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReadApp(cmd, opts, func(a *app) error {
				count, err := a.engine.TransactionCount()
				if err != nil {
					return err
				}
				views := make([]*transactionView, 0, count)
				for i := uint64(0); i < count; i++ {
					v, err := viewTransaction(a, i)
					if err != nil {
						return err
					}
					views = append(views, v)
				}
				return printJSON(cmd.OutOrStdout(), views)
			})
		},
	}
}

// NewOwnersCommand creates the owners command.
func NewOwnersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "owners",
		Short:         "Print the owners and the quorum as JSON",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReadApp(cmd, opts, func(a *app) error {
				reg := a.engine.Registry()
				return printJSON(cmd.OutOrStdout(), ownersView{
					Owners: reg.Owners(),
					Quorum: reg.Quorum(),
				})
			})
		},
	}
}

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "balance",
		Short:         "Print the value held by the vault",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReadApp(cmd, opts, func(a *app) error {
				bal, err := a.engine.Balance()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), bal)
				return nil
			})
		},
	}
}

// NewAccountCommand creates the account command.
func NewAccountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "account <address>",
		Short:         "Print the value received by an address",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withReadApp(cmd, opts, func(a *app) error {
				bal, err := a.cash.Balance(a.db, addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), bal)
				return nil
			})
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), vault.Version())
		},
	}
}
