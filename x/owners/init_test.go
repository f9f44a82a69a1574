package owners

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestGenesis(t *testing.T) {
	const ownersSection = `{
		"owners": {
			"owners": [
				"9F3E4D5A6B7C8D9E0F1A2B3C4D5E6F708192A3B4",
				"bech32:tiov16hzpmhecd65u993lasmexrdlkvhcxtlnf7f4ws"
			],
			"quorum": 2
		}
	}`
	cases := map[string]struct {
		raw       string
		wantErr   *errors.Error
		wantCount uint32
	}{
		"valid section": {
			raw:       ownersSection,
			wantCount: 2,
		},
		"missing section": {
			raw:     `{}`,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"quorum too high": {
			raw:     `{"owners": {"owners": ["9F3E4D5A6B7C8D9E0F1A2B3C4D5E6F708192A3B4"], "quorum": 2}}`,
			wantErr: errors.ErrInvalidConfiguration,
		},
		"malformed section": {
			raw:     `{"owners": {"owners": "nope"}}`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts vault.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.raw), &opts))

			db := store.MemStore()
			var initializer Initializer
			err := initializer.FromGenesis(opts, db)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			reg, err := Load(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantCount, reg.OwnerCount())
		})
	}
}
