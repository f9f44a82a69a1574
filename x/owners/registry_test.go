package owners

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestNewRegistry(t *testing.T) {
	a := vaulttest.NewAddress()
	b := vaulttest.NewAddress()
	c := vaulttest.NewAddress()

	cases := map[string]struct {
		owners  []vault.Address
		quorum  uint32
		wantErr *errors.Error
	}{
		"single owner": {
			owners: []vault.Address{a},
			quorum: 1,
		},
		"quorum equals owners": {
			owners: []vault.Address{a, b, c},
			quorum: 3,
		},
		"no owners": {
			owners:  nil,
			quorum:  1,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"zero quorum": {
			owners:  []vault.Address{a, b},
			quorum:  0,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"quorum above owner count": {
			owners:  []vault.Address{a, b},
			quorum:  3,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"duplicated owner": {
			owners:  []vault.Address{a, b, a},
			quorum:  1,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"zero address": {
			owners:  []vault.Address{a, make(vault.Address, vault.AddressLength)},
			quorum:  1,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"empty address": {
			owners:  []vault.Address{a, nil},
			quorum:  1,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"short address": {
			owners:  []vault.Address{a, vault.Address("short")},
			quorum:  1,
			wantErr: errors.ErrInvalidConfiguration,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			reg, err := NewRegistry(tc.owners, tc.quorum)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, uint32(len(tc.owners)), reg.OwnerCount())
			assert.Equal(t, tc.quorum, reg.Quorum())
			if reg.OwnerCount() < reg.Quorum() || reg.Quorum() < 1 {
				t.Fatalf("invalid registry: %d owners, quorum %d", reg.OwnerCount(), reg.Quorum())
			}
			for i, o := range tc.owners {
				assert.Equal(t, true, reg.IsOwner(o))
				got, err := reg.OwnerAt(uint32(i))
				assert.Nil(t, err)
				assert.Equal(t, o, got)
			}
		})
	}
}

func TestNewRegistryFieldErrors(t *testing.T) {
	a := vaulttest.NewAddress()
	_, err := NewRegistry([]vault.Address{a, vault.Address("short"), a, nil}, 5)
	assert.IsErr(t, errors.ErrInvalidConfiguration, err)

	assert.FieldErr(t, err, "Owners.0", nil)
	assert.FieldErr(t, err, "Owners.1", errors.ErrInvalidInput)
	assert.FieldErr(t, err, "Owners.2", errors.ErrDuplicate)
	assert.FieldErr(t, err, "Owners.3", errors.ErrInvalidInput)
	assert.FieldErr(t, err, "Quorum", errors.ErrInvalidInput)
}

func TestRegistryAccessors(t *testing.T) {
	a := vaulttest.NewAddress()
	b := vaulttest.NewAddress()
	reg, err := NewRegistry([]vault.Address{a, b}, 2)
	assert.Nil(t, err)

	assert.Equal(t, false, reg.IsOwner(vaulttest.NewAddress()))
	assert.Equal(t, false, reg.IsOwner(nil))

	_, err = reg.OwnerAt(2)
	assert.IsErr(t, errors.ErrIndexOutOfRange, err)

	owners := reg.Owners()
	assert.Equal(t, []vault.Address{a, b}, owners)

	// modifying the returned values must not change the registry
	owners[0][0] ^= 0xff
	owners[1] = nil
	assert.Equal(t, []vault.Address{a, b}, reg.Owners())
	assert.Equal(t, true, reg.IsOwner(a))
}

func TestRegistryCopiesInput(t *testing.T) {
	a := vaulttest.NewAddress()
	input := []vault.Address{append(vault.Address{}, a...)}
	reg, err := NewRegistry(input, 1)
	assert.Nil(t, err)

	input[0][0] ^= 0xff
	assert.Equal(t, true, reg.IsOwner(a))
}
