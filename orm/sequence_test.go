package orm

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewBucket("wtx").Sequence("id")

	cur, err := s.Current(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), cur)

	for want := uint64(0); want < 3; want++ {
		got, err := s.Next(db)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}
	val, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(3), val)

	cur, err = s.Current(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(4), cur)

	raw, err := db.Get([]byte("_s.wtx:id"))
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(4), raw)
}

func TestDecodeSequence(t *testing.T) {
	_, err := DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInvalidInput, err)
	v, err := DecodeSequence(nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestCounter(t *testing.T) {
	db := store.MemStore()
	c := NewCounter("wallet", "balance")

	v, err := c.Add(db, 10)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), v)

	_, err = c.Sub(db, 11)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	v, err = c.Sub(db, 4)
	assert.Nil(t, err)
	assert.Equal(t, uint64(6), v)

	_, err = c.Add(db, ^uint64(0))
	assert.IsErr(t, errors.ErrOverflow, err)

	v, err = c.Value(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(6), v)
}
