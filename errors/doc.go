/*
Package errors implements the error kinds used across the vault.

Every failure returned by the vault is rooted in one of the kinds declared
with Register. A kind carries a stable numeric code so that clients (the
command line tool, an event consumer) can react to a failure without parsing
its message.

Create errors at the call site by wrapping a kind:

	return errors.Wrapf(errors.ErrNotFound, "transaction %d", index)

and test for a kind with its Is method:

	if wallet.ErrAlreadyExecuted.Is(err) { ... }

The innermost wrap attaches a stack trace. Use fmt with %+v to print it,
%s or %v for the message only.
*/
package errors
