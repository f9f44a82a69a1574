package orm

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Sequence hands out consecutive integers starting at zero. Each value is
// greater than the last, both as integer and compared as encoded bytes.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence stored under _s.<bucket>:<name>.
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// Next returns the next free value and advances the sequence.
func (s Sequence) Next(db vault.KVStore) (uint64, error) {
	val, err := s.Current(db)
	if err != nil {
		return 0, err
	}
	if val == ^uint64(0) {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// NextVal is Next with the value encoded as a key.
func (s Sequence) NextVal(db vault.KVStore) ([]byte, error) {
	val, err := s.Next(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(val), nil
}

// Current returns how many values were handed out so far, which is also the
// value the next call to Next returns.
func (s Sequence) Current(db vault.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw)
}

// DecodeSequence reads an 8 byte big endian value. Nil decodes to zero.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "sequence length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence writes the value as 8 byte big endian.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
