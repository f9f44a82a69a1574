package store

import (
	"bytes"

	"github.com/google/btree"
)

type source int

const (
	fromNone source = iota
	fromCache
	fromParent
	fromBoth
)

// cacheIterator merges a snapshot of cached items with the parent
// iterator. Cached items shadow parent entries with the same key and
// deleted items hide them.
type cacheIterator struct {
	items     []btree.Item
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []btree.Item, parent Iterator, ascending bool) *cacheIterator {
	it := &cacheIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.skipDeleted(); err != nil {
		// Parent iterators over in-memory and iavl stores never fail on Next.
		panic(err)
	}
	return it
}

func (c *cacheIterator) cacheValid() bool {
	return c.idx < len(c.items)
}

func (c *cacheIterator) cached() btree.Item {
	return c.items[c.idx]
}

// head tells which of the two sources holds the next key.
func (c *cacheIterator) head() source {
	pv := c.parent != nil && c.parent.Valid()
	cv := c.cacheValid()
	switch {
	case !pv && !cv:
		return fromNone
	case !pv:
		return fromCache
	case !cv:
		return fromParent
	}
	cmp := bytes.Compare(c.parent.Key(), c.cached().(keyer).Key())
	if !c.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return fromParent
	case cmp > 0:
		return fromCache
	default:
		return fromBoth
	}
}

// skipDeleted advances past cached deletions and the parent entries they
// hide.
func (c *cacheIterator) skipDeleted() error {
	for {
		src := c.head()
		if src != fromCache && src != fromBoth {
			return nil
		}
		if _, ok := c.cached().(deletedItem); !ok {
			return nil
		}
		c.idx++
		if src == fromBoth {
			if err := c.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// Valid returns whether the current position is valid.
func (c *cacheIterator) Valid() bool {
	return c.head() != fromNone
}

// Next moves the cursor forward. Panics if not valid.
func (c *cacheIterator) Next() error {
	switch c.head() {
	case fromNone:
		panic("Advancing invalid iterator")
	case fromCache:
		c.idx++
	case fromParent:
		if err := c.parent.Next(); err != nil {
			return err
		}
	case fromBoth:
		c.idx++
		if err := c.parent.Next(); err != nil {
			return err
		}
	}
	return c.skipDeleted()
}

// Key returns the key of the cursor.
func (c *cacheIterator) Key() []byte {
	switch c.head() {
	case fromParent:
		return c.parent.Key()
	case fromCache, fromBoth:
		return c.cached().(keyer).Key()
	default:
		panic("Reading key of invalid iterator")
	}
}

// Value returns the value of the cursor.
func (c *cacheIterator) Value() []byte {
	switch c.head() {
	case fromParent:
		return c.parent.Value()
	case fromCache, fromBoth:
		return c.cached().(setItem).value
	default:
		panic("Reading value of invalid iterator")
	}
}

// Close releases the parent iterator.
func (c *cacheIterator) Close() {
	if c.parent != nil {
		c.parent.Close()
	}
	c.items = nil
}
