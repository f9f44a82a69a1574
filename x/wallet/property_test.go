package wallet

import (
	"context"
	"math/rand"
	"testing"

	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

// TestRandomOperations runs random operations and checks after each of them
// that the stored state is consistent with what was accepted so far.
func TestRandomOperations(t *testing.T) {
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(42))
	f := newFixture(t, 4, 2)

	var (
		submitted uint64
		balance   uint64
		executed  = make(map[uint64]bool)
	)

	for step := 0; step < 500; step++ {
		caller := f.owners[rnd.Intn(len(f.owners))]
		if rnd.Intn(5) == 0 {
			caller = vaulttest.NewAddress()
		}
		var index uint64
		if submitted > 0 {
			index = uint64(rnd.Int63n(int64(submitted) + 1))
		}

		switch rnd.Intn(5) {
		case 0:
			amount := uint64(rnd.Intn(20))
			if _, err := f.engine.SubmitTransaction(ctx, caller, vaulttest.NewAddress(), amount, nil); err == nil {
				submitted++
			}
		case 1:
			_ = f.engine.ConfirmTransaction(ctx, caller, index)
		case 2:
			_ = f.engine.RevokeConfirmation(ctx, caller, index)
		case 3:
			before := f.balance(t)
			err := f.engine.ExecuteTransaction(ctx, caller, index)
			if err == nil {
				tx := f.tx(t, index)
				assert.Equal(t, false, executed[index])
				assert.Equal(t, true, tx.ConfirmationCount >= 2)
				assert.Equal(t, before-tx.Amount, f.balance(t))
				executed[index] = true
				balance -= tx.Amount
			} else {
				assert.Equal(t, before, f.balance(t))
			}
		case 4:
			amount := uint64(rnd.Intn(15))
			assert.Nil(t, f.engine.Deposit(ctx, caller, amount))
			balance += amount
		}

		count, err := f.engine.TransactionCount()
		assert.Nil(t, err)
		assert.Equal(t, submitted, count)
		assert.Equal(t, balance, f.balance(t))

		for i := uint64(0); i < submitted; i++ {
			tx := f.tx(t, i)
			confirmed, err := f.engine.Confirmations(i)
			assert.Nil(t, err)
			assert.Equal(t, uint32(len(confirmed)), tx.ConfirmationCount)
			assert.Equal(t, executed[i], tx.Executed)
		}
	}
}
