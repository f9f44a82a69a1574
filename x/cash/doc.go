/*
Package cash is the value transfer primitive used by the vault when a
transaction executes.

Every recipient has an account holding the amount it received. There is no
logic in the accounts except that they may not overflow. A recipient may
register a Receiver to be notified of incoming transfers; a receiver can
reject a transfer, which fails the whole execution.
*/
package cash
