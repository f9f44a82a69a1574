package wallet

import (
	"context"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/owners"
	"github.com/tendermint/tendermint/libs/log"
)

// Transferer moves value out of the vault to a recipient. All writes must
// go to db so that they roll back with the execution.
type Transferer interface {
	Transfer(db vault.KVStore, to vault.Address, amount uint64, payload []byte) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithEventSink publishes committed events to sink.
func WithEventSink(sink events.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source used for events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine runs the transaction lifecycle over a store.
//
// Engine is not safe for concurrent use. Calls made back into the engine
// by the Transferer are supported and run inside the savepoint of the
// calling operation.
type Engine struct {
	reg      *owners.Registry
	db       vault.CacheableKVStore
	transfer Transferer
	sink     events.Sink
	logger   log.Logger
	now      func() time.Time

	// pending collects events of the innermost running operation. It is
	// nil when no operation runs.
	pending *[]events.Event

	txs    orm.Bucket
	confs  orm.Bucket
	seq    orm.Sequence
	ledger Ledger
}

// NewEngine returns an engine guarding the value held in db.
func NewEngine(reg *owners.Registry, db vault.CacheableKVStore, t Transferer, opts ...Option) *Engine {
	txs := orm.NewBucket(TransactionBucket)
	e := &Engine{
		reg:      reg,
		db:       db,
		transfer: t,
		sink:     events.Discard,
		logger:   log.NewNopLogger(),
		now:      time.Now,
		txs:      txs,
		confs:    orm.NewBucket(ConfirmationBucket),
		seq:      txs.Sequence(IndexSequence),
		ledger:   NewLedger(),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With("module", "wallet")
	return e
}

// Registry returns the owners of the vault.
func (e *Engine) Registry() *owners.Registry {
	return e.reg
}

// SubmitTransaction appends a new unconfirmed transaction to the journal
// and returns its index. The balance is not checked.
func (e *Engine) SubmitTransaction(ctx context.Context, caller, to vault.Address, amount uint64, payload []byte) (uint64, error) {
	var index uint64
	err := e.atomic(ctx, "submit", func(db vault.KVStore) error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		tx := &Transaction{
			Recipient: clone(to),
			Amount:    amount,
			Payload:   clone(payload),
		}
		if err := tx.Validate(); err != nil {
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		idx, err := e.seq.Next(db)
		if err != nil {
			return err
		}
		if err := e.txs.Put(db, indexKey(idx), tx); err != nil {
			return err
		}
		index = idx
		return e.emit(db, events.KindSubmit, caller, &idx, tx)
	})
	return index, err
}

// ConfirmTransaction records the approval of caller.
func (e *Engine) ConfirmTransaction(ctx context.Context, caller vault.Address, index uint64) error {
	return e.atomic(ctx, "confirm", func(db vault.KVStore) error {
		tx, err := e.loadPending(db, caller, index)
		if err != nil {
			return err
		}
		key := confirmationKey(index, caller)
		switch ok, err := e.confs.Has(db, key); {
		case err != nil:
			return err
		case ok:
			return errors.Wrapf(ErrAlreadyConfirmed, "transaction %d by %s", index, caller)
		}
		if err := e.confs.Put(db, key, &Confirmation{Owner: clone(caller)}); err != nil {
			return err
		}
		tx.ConfirmationCount++
		if err := e.txs.Put(db, indexKey(index), tx); err != nil {
			return err
		}
		return e.emit(db, events.KindConfirm, caller, &index, tx)
	})
}

// RevokeConfirmation withdraws the approval of caller.
func (e *Engine) RevokeConfirmation(ctx context.Context, caller vault.Address, index uint64) error {
	return e.atomic(ctx, "revoke", func(db vault.KVStore) error {
		tx, err := e.loadPending(db, caller, index)
		if err != nil {
			return err
		}
		key := confirmationKey(index, caller)
		switch ok, err := e.confs.Has(db, key); {
		case err != nil:
			return err
		case !ok:
			return errors.Wrapf(ErrNotConfirmed, "transaction %d by %s", index, caller)
		}
		if err := e.confs.Delete(db, key); err != nil {
			return err
		}
		tx.ConfirmationCount--
		if err := e.txs.Put(db, indexKey(index), tx); err != nil {
			return err
		}
		return e.emit(db, events.KindRevoke, caller, &index, tx)
	})
}

// ExecuteTransaction transfers the value of a sufficiently confirmed
// transaction. The transaction is sealed before the transfer starts; if
// the transfer fails nothing changes and the transaction can be retried.
func (e *Engine) ExecuteTransaction(ctx context.Context, caller vault.Address, index uint64) error {
	return e.atomic(ctx, "execute", func(db vault.KVStore) error {
		tx, err := e.loadPending(db, caller, index)
		if err != nil {
			return err
		}
		if q := e.reg.Quorum(); tx.ConfirmationCount < q {
			return errors.Wrapf(ErrInsufficientConfirmations, "%d of %d", tx.ConfirmationCount, q)
		}

		tx.Executed = true
		if err := e.txs.Put(db, indexKey(index), tx); err != nil {
			return err
		}
		switch _, err := e.ledger.Debit(db, tx.Amount); {
		case errors.ErrInsufficientAmount.Is(err):
			return errors.Wrap(ErrTransferFailed, err.Error())
		case err != nil:
			return err
		}
		if err := e.transfer.Transfer(db, tx.Recipient, tx.Amount, tx.Payload); err != nil {
			return errors.Wrap(ErrTransferFailed, err.Error())
		}
		return e.emit(db, events.KindExecute, caller, &index, tx)
	})
}

// Deposit increases the balance. Anyone may deposit.
func (e *Engine) Deposit(ctx context.Context, caller vault.Address, amount uint64) error {
	return e.atomic(ctx, "deposit", func(db vault.KVStore) error {
		if _, err := e.ledger.Credit(db, amount); err != nil {
			return err
		}
		ev := e.event(events.KindDeposit, caller)
		ev.Amount = amount
		return e.push(db, ev)
	})
}

// TransactionCount returns the number of submitted transactions.
func (e *Engine) TransactionCount() (uint64, error) {
	return e.seq.Current(e.db)
}

// Transaction returns the transaction at index.
func (e *Engine) Transaction(index uint64) (*Transaction, error) {
	return e.load(e.db, index)
}

// Balance returns the value held by the vault.
func (e *Engine) Balance() (uint64, error) {
	return e.ledger.Balance(e.db)
}

// IsConfirmed returns true if owner currently approves the transaction.
func (e *Engine) IsConfirmed(index uint64, owner vault.Address) (bool, error) {
	if _, err := e.load(e.db, index); err != nil {
		return false, err
	}
	return e.confs.Has(e.db, confirmationKey(index, owner))
}

// Confirmations returns the owners approving the transaction, in registry
// order.
func (e *Engine) Confirmations(index uint64) ([]vault.Address, error) {
	if _, err := e.load(e.db, index); err != nil {
		return nil, err
	}
	var res []vault.Address
	for _, o := range e.reg.Owners() {
		ok, err := e.confs.Has(e.db, confirmationKey(index, o))
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, o)
		}
	}
	return res, nil
}

func (e *Engine) requireOwner(caller vault.Address) error {
	if !e.reg.IsOwner(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	return nil
}

func (e *Engine) load(db vault.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	var tx Transaction
	switch err := e.txs.One(db, indexKey(index), &tx); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrTransactionNotFound, "index %d", index)
	case err != nil:
		return nil, err
	}
	return &tx, nil
}

// loadPending checks, in order, that caller is an owner, that the
// transaction exists and that it was not executed.
func (e *Engine) loadPending(db vault.ReadOnlyKVStore, caller vault.Address, index uint64) (*Transaction, error) {
	if err := e.requireOwner(caller); err != nil {
		return nil, err
	}
	tx, err := e.load(db, index)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "index %d", index)
	}
	return tx, nil
}

// atomic runs fn in a savepoint on top of the current store. Calls made
// while fn runs, including calls back into the engine, see the savepoint.
// The savepoint is written only if fn succeeds. Events are published after
// the outermost savepoint was written.
func (e *Engine) atomic(ctx context.Context, op string, fn func(db vault.KVStore) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}

	parentDB, parentPending := e.db, e.pending
	cache := parentDB.CacheWrap()
	var pending []events.Event
	e.db, e.pending = cache, &pending

	err := guard(fn, cache)
	e.db, e.pending = parentDB, parentPending

	if err != nil {
		cache.Discard()
		e.logger.Debug("operation failed", "op", op, "err", err)
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrapf(err, "commit %s", op)
	}
	if parentPending != nil {
		*parentPending = append(*parentPending, pending...)
		return nil
	}
	for _, ev := range pending {
		e.logger.Info("committed", "op", string(ev.Kind), "caller", ev.Caller.String(), "balance", ev.Balance)
		if err := e.sink.Publish(ctx, ev); err != nil {
			e.logger.Error("cannot publish event", "id", ev.ID.String(), "op", string(ev.Kind), "err", err)
		}
	}
	return nil
}

func guard(fn func(db vault.KVStore) error, db vault.KVStore) (err error) {
	defer errors.Recover(&err)
	return fn(db)
}

func (e *Engine) event(kind events.Kind, caller vault.Address) events.Event {
	return events.New(kind, clone(caller), e.now())
}

func (e *Engine) emit(db vault.ReadOnlyKVStore, kind events.Kind, caller vault.Address, index *uint64, tx *Transaction) error {
	ev := e.event(kind, caller).WithIndex(*index)
	ev.Recipient = tx.Recipient
	ev.Amount = tx.Amount
	ev.Payload = tx.Payload
	ev.Confirmations = tx.ConfirmationCount
	return e.push(db, ev)
}

func (e *Engine) push(db vault.ReadOnlyKVStore, ev events.Event) error {
	bal, err := e.ledger.Balance(db)
	if err != nil {
		return err
	}
	ev.Balance = bal
	*e.pending = append(*e.pending, ev)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
