package orm

import (
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is anything a bucket can store.
type Model interface {
	vault.Persistent
	vault.Validater
}

// Bucket stores models under a common key prefix.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket returns a bucket for given name. It panics if the name is not
// 3 to 10 lowercase letters or underscores.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key used in the store.
func (b Bucket) DBKey(key []byte) []byte {
	res := make([]byte, 0, len(b.prefix)+len(key))
	res = append(res, b.prefix...)
	return append(res, key...)
}

// One loads the model stored under key into dest. It returns ErrNotFound if
// the key is not present.
func (b Bucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "%s %X: %s", b.name, key, err)
	}
	return nil
}

// Has returns true if a model is stored under key.
func (b Bucket) Has(db vault.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Put validates and stores the model under key, replacing any previous one.
func (b Bucket) Put(db vault.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s", b.name)
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "marshal %s: %s", b.name, err)
	}
	// stores reject nil values and a zero model encodes to nothing
	if raw == nil {
		raw = []byte{}
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the model stored under key. It returns ErrNotFound if the
// key is not present.
func (b Bucket) Delete(db vault.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Keys returns all keys in the bucket that start with prefix, in ascending
// order, without the bucket prefix.
func (b Bucket) Keys(db vault.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	start := b.DBKey(prefix)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() {
		keys = append(keys, it.Key()[len(b.prefix):])
		if err := it.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return keys, nil
}

// Sequence returns a sequence scoped to this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Counter returns a counter scoped to this bucket.
func (b Bucket) Counter(name string) Counter {
	return NewCounter(b.name, name)
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
