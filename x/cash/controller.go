package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Receiver is notified when value arrives at the address it is registered
// for. Returning an error rejects the transfer.
type Receiver interface {
	Receive(db vault.KVStore, amount uint64, payload []byte) error
}

// ReceiverFunc adapts a function to the Receiver interface.
type ReceiverFunc func(db vault.KVStore, amount uint64, payload []byte) error

func (fn ReceiverFunc) Receive(db vault.KVStore, amount uint64, payload []byte) error {
	return fn(db, amount, payload)
}

// Controller credits recipient accounts.
type Controller struct {
	bucket    orm.Bucket
	receivers map[string]Receiver
}

// NewController returns a controller without any receivers.
func NewController() *Controller {
	return &Controller{
		bucket:    orm.NewBucket(BucketName),
		receivers: make(map[string]Receiver),
	}
}

// RegisterReceiver installs r for incoming transfers to addr. A nil
// receiver removes the registration.
func (c *Controller) RegisterReceiver(addr vault.Address, r Receiver) {
	if r == nil {
		delete(c.receivers, string(addr))
		return
	}
	c.receivers[string(addr)] = r
}

// Transfer credits amount to the account of to and then hands the payload
// to its receiver, if any. All writes go to db, so discarding db undoes the
// transfer including whatever the receiver wrote.
func (c *Controller) Transfer(db vault.KVStore, to vault.Address, amount uint64, payload []byte) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	var acc Account
	switch err := c.bucket.One(db, to, &acc); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
	default:
		return err
	}
	if acc.Amount+amount < acc.Amount {
		return errors.Wrapf(errors.ErrOverflow, "account %s", to)
	}
	acc.Amount += amount
	if err := c.bucket.Put(db, to, &acc); err != nil {
		return err
	}

	if r, ok := c.receivers[string(to)]; ok {
		if err := r.Receive(db, amount, payload); err != nil {
			return errors.Wrapf(err, "rejected by %s", to)
		}
	}
	return nil
}

// Balance returns the amount received by addr. Unknown addresses hold
// nothing.
func (c *Controller) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	var acc Account
	switch err := c.bucket.One(db, addr, &acc); {
	case err == nil:
		return acc.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
