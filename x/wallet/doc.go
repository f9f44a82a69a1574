/*
Package wallet implements the transaction lifecycle of a multi-owner vault.

Owners submit transfers, confirm or revoke their approval, and once enough
owners confirmed, any owner executes the transfer. Anyone may deposit.

Every operation runs in its own savepoint on top of the store. A failing
operation discards the savepoint, leaving no trace. Execution marks the
transaction executed before handing value to the Transferer, so a call
back into the engine made by the recipient sees the transaction as already
executed and is rejected.
*/
package wallet
