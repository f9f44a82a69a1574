package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/config"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	"github.com/iov-one/vault/events/amqp"
	"github.com/iov-one/vault/events/audit"
	"github.com/iov-one/vault/events/redis"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	dataDir = "data"
	dbName  = "vault"
)

// app is an opened vault home.
type app struct {
	store  *iavl.CommitStore
	db     vault.CacheableKVStore
	engine *wallet.Engine
	cash   *cash.Controller
	logger log.Logger

	// committed events wait here until the store was saved to disk
	buffer  *events.Recorder
	sink    events.Sink
	closers []io.Closer
}

func newLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}

// openStore loads the configuration and the persistent store of home.
func openStore(home string, logOut io.Writer) (*iavl.CommitStore, config.Config, log.Logger, error) {
	cfg, err := config.Load(filepath.Join(home, config.FileName))
	if err != nil {
		return nil, cfg, nil, err
	}
	logger, err := newLogger(logOut, cfg.LogLevel)
	if err != nil {
		return nil, cfg, nil, err
	}
	st, err := iavl.NewCommitStore(filepath.Join(home, dataDir), dbName)
	if err != nil {
		return nil, cfg, nil, err
	}
	return st, cfg, logger.With("module", "vaultd"), nil
}

// openApp opens an initialized vault.
func openApp(ctx context.Context, home string, logOut io.Writer) (*app, error) {
	st, cfg, logger, err := openStore(home, logOut)
	if err != nil {
		return nil, err
	}
	db := st.Adapter()
	reg, err := owners.Load(db)
	if err != nil {
		st.Close()
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(err, "vault in %s not initialized", home)
		}
		return nil, err
	}

	a := &app{
		store:  st,
		db:     db,
		cash:   cash.NewController(),
		logger: logger,
		buffer: &events.Recorder{},
	}
	if err := a.connectSinks(ctx, cfg.Events); err != nil {
		a.Close()
		return nil, err
	}
	a.engine = wallet.NewEngine(reg, db, a.cash,
		wallet.WithEventSink(a.buffer),
		wallet.WithLogger(logger))
	return a, nil
}

func (a *app) connectSinks(ctx context.Context, cfg config.Events) error {
	var sinks []events.Sink
	if cfg.Log {
		sinks = append(sinks, events.LogSink(a.logger))
	}
	if cfg.AMQP != nil {
		p, err := amqp.Dial(*cfg.AMQP)
		if err != nil {
			return errors.Wrap(err, "amqp sink")
		}
		a.closers = append(a.closers, p)
		sinks = append(sinks, p)
	}
	if cfg.Redis != nil {
		p, err := redis.Connect(ctx, *cfg.Redis)
		if err != nil {
			return errors.Wrap(err, "redis sink")
		}
		a.closers = append(a.closers, p)
		sinks = append(sinks, p)
	}
	if cfg.Audit != nil {
		j, err := audit.Open(ctx, *cfg.Audit)
		if err != nil {
			return errors.Wrap(err, "audit sink")
		}
		a.closers = append(a.closers, j)
		sinks = append(sinks, j)
	}
	a.sink = events.Multi(sinks...)
	return nil
}

// commit saves the working state and then publishes the events raised by
// the operations since the last commit.
func (a *app) commit(ctx context.Context) error {
	id, err := a.store.Commit()
	if err != nil {
		return err
	}
	a.logger.Debug("state saved", "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))

	for _, ev := range a.buffer.Drain() {
		if err := a.sink.Publish(ctx, ev); err != nil {
			a.logger.Error("cannot publish event", "id", ev.ID.String(), "err", err)
		}
	}
	return nil
}

// Close releases the sinks and the store.
func (a *app) Close() error {
	var errs error
	for _, c := range a.closers {
		errs = errors.Append(errs, c.Close())
	}
	return errors.Append(errs, a.store.Close())
}
