package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "vaultd-")
	require.NoError(t, err)
	return filepath.Join(dir, "home"), func() { os.RemoveAll(dir) }
}

func vaultd(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustVaultd(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := vaultd(t, home, args...)
	require.NoError(t, err, "vaultd %s", strings.Join(args, " "))
	return strings.TrimSpace(out)
}

func hexAddr(a vault.Address) string {
	return a.String()
}

func TestVaultLifecycle(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	a, b, c := vaulttest.NewAddress(), vaulttest.NewAddress(), vaulttest.NewAddress()
	out := mustVaultd(t, home, "init", "--owner", hexAddr(a), "--owner", hexAddr(b), "--quorum", "1")
	assert.Equal(t, "vault with 2 owners, quorum 1", out)

	assert.Equal(t, "0", mustVaultd(t, home, "submit", "--from", hexAddr(a), "--to", hexAddr(c), "--amount", "10", "--payload", "cafe"))
	mustVaultd(t, home, "confirm", "--from", hexAddr(a), "0")
	mustVaultd(t, home, "deposit", "--from", hexAddr(b), "--amount", "15")
	mustVaultd(t, home, "execute", "--from", hexAddr(a), "0")

	assert.Equal(t, "5", mustVaultd(t, home, "balance"))
	assert.Equal(t, "10", mustVaultd(t, home, "account", hexAddr(c)))

	var tx transactionView
	require.NoError(t, json.Unmarshal([]byte(mustVaultd(t, home, "show", "0")), &tx))
	assert.Equal(t, transactionView{
		Index:             0,
		Recipient:         c,
		Amount:            10,
		Payload:           "cafe",
		Executed:          true,
		ConfirmationCount: 1,
		ConfirmedBy:       []vault.Address{a},
	}, tx)

	_, err := vaultd(t, home, "confirm", "--from", hexAddr(b), "0")
	assert.True(t, wallet.ErrAlreadyExecuted.Is(err), "got %+v", err)
	_, err = vaultd(t, home, "execute", "--from", hexAddr(a), "0")
	assert.True(t, wallet.ErrAlreadyExecuted.Is(err), "got %+v", err)

	// a failed operation leaves the balance alone
	assert.Equal(t, "5", mustVaultd(t, home, "balance"))

	var list []transactionView
	require.NoError(t, json.Unmarshal([]byte(mustVaultd(t, home, "list")), &list))
	assert.Len(t, list, 1)

	var own ownersView
	require.NoError(t, json.Unmarshal([]byte(mustVaultd(t, home, "owners")), &own))
	assert.Equal(t, ownersView{Owners: []vault.Address{a, b}, Quorum: 1}, own)
}

func TestNonOwnerRejected(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	a, stranger := vaulttest.NewAddress(), vaulttest.NewAddress()
	mustVaultd(t, home, "init", "--owner", hexAddr(a))

	_, err := vaultd(t, home, "submit", "--from", hexAddr(stranger), "--to", hexAddr(a), "--amount", "1")
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	mustVaultd(t, home, "deposit", "--from", hexAddr(stranger), "--amount", "3")
	assert.Equal(t, "3", mustVaultd(t, home, "balance"))
	assert.Equal(t, "[]", mustVaultd(t, home, "list"))
}

func TestInitErrors(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	_, err := vaultd(t, home, "balance")
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	_, err = vaultd(t, home, "init", "--owner", hexAddr(vaulttest.NewAddress()), "--quorum", "2")
	assert.True(t, errors.ErrInvalidConfiguration.Is(err), "got %+v", err)

	mustVaultd(t, home, "init", "--owner", hexAddr(vaulttest.NewAddress()))
	_, err = vaultd(t, home, "init", "--owner", hexAddr(vaulttest.NewAddress()))
	assert.True(t, errors.ErrInvalidConfiguration.Is(err), "got %+v", err)
}

func TestInitFromGenesis(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	a, b := vaulttest.NewAddress(), vaulttest.NewAddress()
	genesis := `{"app_state": {"owners": {"owners": ["` + hexAddr(a) + `", "` + hexAddr(b) + `"], "quorum": 2}}}`
	path := filepath.Join(filepath.Dir(home), "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(genesis), 0600))

	assert.Equal(t, "vault with 2 owners, quorum 2", mustVaultd(t, home, "init", "--genesis", path))

	mustVaultd(t, home, "deposit", "--from", hexAddr(a), "--amount", "9")
	mustVaultd(t, home, "submit", "--from", hexAddr(b), "--to", hexAddr(vaulttest.NewAddress()), "--amount", "9")
	mustVaultd(t, home, "confirm", "--from", hexAddr(a), "0")
	_, err := vaultd(t, home, "execute", "--from", hexAddr(a), "0")
	assert.True(t, wallet.ErrInsufficientConfirmations.Is(err), "got %+v", err)
	mustVaultd(t, home, "revoke", "--from", hexAddr(a), "0")
	mustVaultd(t, home, "confirm", "--from", hexAddr(a), "0")
	mustVaultd(t, home, "confirm", "--from", hexAddr(b), "0")
	mustVaultd(t, home, "execute", "--from", hexAddr(b), "0")
	assert.Equal(t, "0", mustVaultd(t, home, "balance"))
}

func TestVersion(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()
	assert.Equal(t, vault.Version(), mustVaultd(t, home, "version"))
}
