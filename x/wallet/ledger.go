package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Ledger is the amount of value held by the vault.
type Ledger struct {
	counter orm.Counter
}

// NewLedger returns the ledger stored under _l.wallet:balance.
func NewLedger() Ledger {
	return Ledger{counter: orm.NewCounter("wallet", "balance")}
}

// Balance returns the current amount.
func (l Ledger) Balance(db vault.ReadOnlyKVStore) (uint64, error) {
	return l.counter.Value(db)
}

// Credit increases the balance. It fails with ErrOverflow instead of
// wrapping around.
func (l Ledger) Credit(db vault.KVStore, amount uint64) (uint64, error) {
	return l.counter.Add(db, amount)
}

// Debit decreases the balance. It fails with ErrInsufficientAmount if the
// balance does not cover amount.
func (l Ledger) Debit(db vault.KVStore, amount uint64) (uint64, error) {
	bal, err := l.counter.Sub(db, amount)
	if err != nil {
		return 0, errors.Wrap(err, "debit")
	}
	return bal, nil
}
