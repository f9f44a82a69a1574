package store

import (
	"fmt"
	"testing"

	"github.com/iov-one/vault/vaulttest/assert"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. Package specific tests only provide the constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that cached writes are visible only after Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("LA"), []byte("Dodgers")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k2, v2, true)

	k3, v3 := []byte("Bayern"), []byte("Munich")
	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(k3, v3))
	assert.Nil(t, discarded.Delete(k))
	discarded.Discard()
	s.AssertGetHas(t, base, k3, nil, false)
	s.AssertGetHas(t, base, k, v, true)
	if err := discarded.Write(); err == nil {
		t.Fatal("writing a discarded cache must fail")
	}
}

// CacheConflicts checks that deletes and overwrites in the cache shadow the
// parent until written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	a, b := []byte("alice"), []byte("bob")
	assert.Nil(t, base.Set(a, []byte("1")))
	assert.Nil(t, base.Set(b, []byte("2")))

	cache := base.CacheWrap()
	assert.Nil(t, cache.Delete(a))
	assert.Nil(t, cache.Set(b, []byte("3")))
	s.AssertGetHas(t, cache, a, nil, false)
	s.AssertGetHas(t, cache, b, []byte("3"), true)
	s.AssertGetHas(t, base, a, []byte("1"), true)
	s.AssertGetHas(t, base, b, []byte("2"), true)

	// delete then set again on the same key keeps the last write
	assert.Nil(t, cache.Set(a, []byte("4")))
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, a, []byte("4"), true)
	s.AssertGetHas(t, base, b, []byte("3"), true)
}

// NestedSavepoints checks that an inner savepoint sees the outer writes
// and that discarding the outer one drops everything written through it.
func (s *TestSuite) NestedSavepoints(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set([]byte("k1"), []byte("outer")))

	inner := outer.CacheWrap()
	s.AssertGetHas(t, inner, []byte("k1"), []byte("outer"), true)
	assert.Nil(t, inner.Set([]byte("k2"), []byte("inner")))
	assert.Nil(t, inner.Write())
	s.AssertGetHas(t, outer, []byte("k2"), []byte("inner"), true)
	s.AssertGetHas(t, base, []byte("k2"), nil, false)

	outer.Discard()
	s.AssertGetHas(t, base, []byte("k1"), nil, false)
	s.AssertGetHas(t, base, []byte("k2"), nil, false)
}

// Iteration checks ordered iteration over merged parent and cache data,
// in both directions and with bounds.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for i := 0; i < 10; i += 2 {
		assert.Nil(t, base.Set(numKey(i), []byte("base")))
	}
	cache := base.CacheWrap()
	for i := 1; i < 10; i += 2 {
		assert.Nil(t, cache.Set(numKey(i), []byte("cache")))
	}
	assert.Nil(t, cache.Delete(numKey(4)))
	assert.Nil(t, cache.Set(numKey(6), []byte("cache")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []int
	}{
		"full ascending": {
			want: []int{0, 1, 2, 3, 5, 6, 7, 8, 9},
		},
		"full descending": {
			reverse: true,
			want:    []int{9, 8, 7, 6, 5, 3, 2, 1, 0},
		},
		"bounded ascending": {
			start: numKey(2),
			end:   numKey(7),
			want:  []int{2, 3, 5, 6},
		},
		"bounded descending": {
			start:   numKey(2),
			end:     numKey(7),
			reverse: true,
			want:    []int{6, 5, 3, 2},
		},
		"open end": {
			start: numKey(8),
			want:  []int{8, 9},
		},
		"open start descending": {
			end:     numKey(3),
			reverse: true,
			want:    []int{2, 1, 0},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Close()

			var got [][]byte
			for ; it.Valid(); assert.Nil(t, it.Next()) {
				got = append(got, it.Key())
			}
			want := make([][]byte, len(tc.want))
			for i, n := range tc.want {
				want[i] = numKey(n)
			}
			assert.Equal(t, want, got)
		})
	}
}

// AssertGetHas checks the value and presence of a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func numKey(n int) []byte {
	return []byte(fmt.Sprintf("key-%03d", n))
}
