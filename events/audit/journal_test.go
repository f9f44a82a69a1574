package audit

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/events"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	return j
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	j := openMemory(t)
	defer j.Close()

	now := time.Date(2019, 6, 1, 8, 30, 0, 123, time.UTC)
	owner := vaulttest.NewAddress()

	deposit := events.New(events.KindDeposit, vaulttest.NewAddress(), now)
	deposit.Amount = 15
	deposit.Balance = 15

	submit := events.New(events.KindSubmit, owner, now).WithIndex(0)
	submit.Recipient = vaulttest.NewAddress()
	submit.Amount = ^uint64(0)
	submit.Payload = []byte{0xca, 0xfe}
	submit.Balance = 15

	other := events.New(events.KindSubmit, owner, now).WithIndex(1)
	other.Recipient = vaulttest.NewAddress()
	other.Balance = 15

	for _, e := range []events.Event{deposit, submit, other} {
		require.NoError(t, j.Publish(ctx, e))
	}

	all, err := j.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, []events.Event{deposit, submit, other}, all)

	first, err := j.Transaction(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []events.Event{submit}, first)

	none, err := j.Transaction(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournalRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	j := openMemory(t)
	defer j.Close()

	e := events.New(events.KindDeposit, vaulttest.NewAddress(), time.Now())
	require.NoError(t, j.Publish(ctx, e))
	err := j.Publish(ctx, e)
	assert.True(t, errors.ErrDatabase.Is(err), "got %v", err)
}

func TestOpenConfig(t *testing.T) {
	cases := map[string]struct {
		cfg     Config
		wantErr *errors.Error
	}{
		"unknown driver": {
			cfg:     Config{Driver: "postgres", DSN: "x"},
			wantErr: errors.ErrInvalidInput,
		},
		"missing dsn": {
			cfg:     Config{Driver: "mysql"},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Open(context.Background(), tc.cfg)
			assert.True(t, tc.wantErr.Is(err), "got %v", err)
		})
	}
}
