package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, err := NewMemCommitStore()
	if err != nil {
		panic(err)
	}
	return commit.Adapter(), func() { commit.Close() }
}

func TestIavlAdapterSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("nested savepoints", suite.NestedSavepoints)
	t.Run("iteration", suite.Iteration)
}

func TestCommitStorePersistsVersions(t *testing.T) {
	dir, err := ioutil.TempDir("", "vault-iavl-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	commit, err := NewCommitStore(dir, "state")
	assert.Nil(t, err)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("owner"), []byte("alice")))
	assert.Nil(t, cache.Write())

	// not visible at the committed version until Commit
	val, err := commit.Get([]byte("owner"))
	assert.Nil(t, err)
	assert.Equal(t, []byte(nil), val)

	id, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.Nil(t, commit.Close())

	reopened, err := NewCommitStore(dir, "state")
	assert.Nil(t, err)
	defer reopened.Close()
	latest, err := reopened.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)
	val, err = reopened.Get([]byte("owner"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("alice"), val)
}

func TestCommitStoreRollback(t *testing.T) {
	commit, err := NewMemCommitStore()
	assert.Nil(t, err)
	defer commit.Close()

	a := commit.Adapter()
	assert.Nil(t, a.Set([]byte("k"), []byte("v")))
	commit.Rollback()
	has, err := a.Has([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
