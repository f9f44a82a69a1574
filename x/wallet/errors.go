package wallet

import "github.com/iov-one/vault/errors"

// wallet takes 1050-1059
var (
	ErrTransactionNotFound       = errors.Register(1050, "transaction not found")
	ErrAlreadyExecuted           = errors.Register(1051, "transaction already executed")
	ErrAlreadyConfirmed          = errors.Register(1052, "transaction already confirmed")
	ErrNotConfirmed              = errors.Register(1053, "transaction not confirmed")
	ErrInsufficientConfirmations = errors.Register(1054, "insufficient confirmations")
	ErrTransferFailed            = errors.Register(1055, "transfer failed")
)
