package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// DefaultFreeListSize is the number of free btree nodes retained for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a btree based CacheWrap to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a savepoint over the store that can be later written
// or discarded.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store without persistence. Useful for tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps uncommitted writes in a btree in front of a read
// only parent. All writes are mirrored into a batch that is applied to the
// parent on Write.
type BTreeCacheWrap struct {
	bt        *btree.BTree
	free      *btree.FreeList
	back      ReadOnlyKVStore
	batch     Batch
	discarded bool
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a cache around given store. Use a
// ReadOnlyKVStore to emphasize that all writes must go through the batch.
//
// free may be nil. Pass an existing list to share released nodes between
// wraps.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another savepoint on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a non-atomic batch writing into this cache.
func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all cached operations to the parent and clears the cache.
func (b *BTreeCacheWrap) Write() error {
	if b.discarded {
		return errors.Wrap(errors.ErrInvalidState, "cache wrap discarded")
	}
	err := b.batch.Write()
	b.bt.Clear(true)
	return err
}

// Discard drops all cached operations. A discarded wrap cannot be written.
func (b *BTreeCacheWrap) Discard() {
	b.discarded = true
	b.bt.Clear(true)
}

// Set writes to the btree and to the batch.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

// Delete marks the key deleted in the btree and records it in the batch.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// Get reads from the btree if the key was touched, else from the parent.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return it.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", it)
	}
}

// Has reads from the btree if the key was touched, else from the parent.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch it := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", it)
	}
}

// Iterator over a domain of keys in ascending order, merging the cache with
// the parent.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(collectRange(b.bt, start, end), parent, true), nil
}

// ReverseIterator over a domain of keys in descending order, merging the
// cache with the parent.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectRange(b.bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newCacheIterator(items, parent, false), nil
}

// collectRange returns all cached items with start <= key < end in
// ascending order. A nil bound is open.
func collectRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	add := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(bkey{end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, add)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, add)
	}
	return items
}

// keyer is implemented by everything stored in the btree.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
