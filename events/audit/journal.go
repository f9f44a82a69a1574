/*
Package audit keeps a queryable SQL journal of all vault events.

The journal works with sqlite3 for a local vault home and with mysql when
several operators share one audit database. Amounts are stored as decimal
text because SQL integers cannot hold the full uint64 range.
*/
package audit

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	_ "github.com/mattn/go-sqlite3"
)

// Config selects the database.
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

var schemas = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS vault_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id VARCHAR(36) NOT NULL UNIQUE,
		kind VARCHAR(16) NOT NULL,
		caller VARCHAR(40) NOT NULL,
		tx_index BIGINT NULL,
		recipient VARCHAR(40) NOT NULL,
		amount VARCHAR(20) NOT NULL,
		payload TEXT NOT NULL,
		confirmations INTEGER NOT NULL,
		balance VARCHAR(20) NOT NULL,
		created_at VARCHAR(40) NOT NULL
	)`,
	"mysql": `CREATE TABLE IF NOT EXISTS vault_events (
		seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(36) NOT NULL UNIQUE,
		kind VARCHAR(16) NOT NULL,
		caller VARCHAR(40) NOT NULL,
		tx_index BIGINT NULL,
		recipient VARCHAR(40) NOT NULL,
		amount VARCHAR(20) NOT NULL,
		payload TEXT NOT NULL,
		confirmations INTEGER NOT NULL,
		balance VARCHAR(20) NOT NULL,
		created_at VARCHAR(40) NOT NULL
	)`,
}

const insertEvent = `INSERT INTO vault_events
	(id, kind, caller, tx_index, recipient, amount, payload, confirmations, balance, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectEvents = `SELECT id, kind, caller, tx_index, recipient, amount, payload, confirmations, balance, created_at
	FROM vault_events`

// Journal is an events.Sink storing every event as a row.
type Journal struct {
	db *sql.DB
}

var _ events.Sink = (*Journal)(nil)

// Open connects to the database and creates the table if needed.
func Open(ctx context.Context, cfg Config) (*Journal, error) {
	schema, ok := schemas[cfg.Driver]
	if !ok {
		return nil, errors.Field("Driver", errors.ErrInvalidInput, "unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, errors.Field("DSN", errors.ErrEmpty, "dsn required")
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite3" {
		// single writer, and in-memory databases live in one connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping %s: %s", cfg.Driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "apply schema: %s", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Publish inserts the event.
func (j *Journal) Publish(ctx context.Context, e events.Event) error {
	var index sql.NullInt64
	if e.Index != nil {
		index = sql.NullInt64{Int64: int64(*e.Index), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, insertEvent,
		e.ID.String(),
		string(e.Kind),
		hex.EncodeToString(e.Caller),
		index,
		hex.EncodeToString(e.Recipient),
		strconv.FormatUint(e.Amount, 10),
		hex.EncodeToString(e.Payload),
		int64(e.Confirmations),
		strconv.FormatUint(e.Balance, 10),
		e.Time.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "insert event %s: %s", e.ID, err)
	}
	return nil
}

// Events returns all journaled events in the order they were published.
func (j *Journal) Events(ctx context.Context) ([]events.Event, error) {
	return j.query(ctx, selectEvents+` ORDER BY seq`)
}

// Transaction returns the events of a single transaction in the order
// they were published.
func (j *Journal) Transaction(ctx context.Context, index uint64) ([]events.Event, error) {
	return j.query(ctx, selectEvents+` WHERE tx_index = ? ORDER BY seq`, int64(index))
}

func (j *Journal) query(ctx context.Context, query string, args ...interface{}) ([]events.Event, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query events: %s", err)
	}
	defer rows.Close()

	var res []events.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "read events: %s", err)
	}
	return res, nil
}

func scanEvent(rows *sql.Rows) (events.Event, error) {
	var (
		e                                          events.Event
		id, kind, caller, recipient, payload, when string
		amount, balance                            string
		index                                      sql.NullInt64
		confirmations                              int64
	)
	if err := rows.Scan(&id, &kind, &caller, &index, &recipient, &amount, &payload, &confirmations, &balance, &when); err != nil {
		return e, errors.Wrapf(errors.ErrDatabase, "scan event: %s", err)
	}

	var errs error
	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		errs = errors.AppendField(errs, "ID", errors.Wrap(errors.ErrInvalidModel, err.Error()))
	}
	e.Kind = events.Kind(kind)
	if e.Caller, err = decodeAddress(caller); err != nil {
		errs = errors.AppendField(errs, "Caller", err)
	}
	if index.Valid {
		e = e.WithIndex(uint64(index.Int64))
	}
	if e.Recipient, err = decodeAddress(recipient); err != nil {
		errs = errors.AppendField(errs, "Recipient", err)
	}
	if e.Amount, err = strconv.ParseUint(amount, 10, 64); err != nil {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrInvalidModel, err.Error()))
	}
	if payload != "" {
		if e.Payload, err = hex.DecodeString(payload); err != nil {
			errs = errors.AppendField(errs, "Payload", errors.Wrap(errors.ErrInvalidModel, err.Error()))
		}
	}
	e.Confirmations = uint32(confirmations)
	if e.Balance, err = strconv.ParseUint(balance, 10, 64); err != nil {
		errs = errors.AppendField(errs, "Balance", errors.Wrap(errors.ErrInvalidModel, err.Error()))
	}
	if e.Time, err = time.Parse(time.RFC3339Nano, when); err != nil {
		errs = errors.AppendField(errs, "Time", errors.Wrap(errors.ErrInvalidModel, err.Error()))
	}
	return e, errs
}

func decodeAddress(enc string) (vault.Address, error) {
	if enc == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return raw, nil
}
