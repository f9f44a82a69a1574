package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Counter is an unsigned amount stored under _l.<bucket>:<name>.
type Counter struct {
	id []byte
}

// NewCounter returns a counter stored under _l.<bucket>:<name>.
func NewCounter(bucket, name string) Counter {
	return Counter{id: []byte("_l." + bucket + ":" + name)}
}

// Value returns the current amount. A missing counter is zero.
func (c Counter) Value(db vault.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(c.id)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw)
}

// Add increases the counter and returns the new amount.
func (c Counter) Add(db vault.KVStore, amount uint64) (uint64, error) {
	val, err := c.Value(db)
	if err != nil {
		return 0, err
	}
	if val+amount < val {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", val, amount)
	}
	return val + amount, c.set(db, val+amount)
}

// Sub decreases the counter and returns the new amount.
func (c Counter) Sub(db vault.KVStore, amount uint64) (uint64, error) {
	val, err := c.Value(db)
	if err != nil {
		return 0, err
	}
	if amount > val {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", val, amount)
	}
	return val - amount, c.set(db, val-amount)
}

func (c Counter) set(db vault.KVStore, val uint64) error {
	if err := db.Set(c.id, EncodeSequence(val)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
