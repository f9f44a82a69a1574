package owners

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Initializer fulfils the Initializer interface to load the owners from the
// genesis file.
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

// FromGenesis reads the "owners" section and saves the registry.
//
//	"owners": {"owners": ["<hex address>", ...], "quorum": 2}
func (*Initializer) FromGenesis(opts vault.Options, kv vault.KVStore) error {
	var conf struct {
		Owners []vault.Address `json:"owners"`
		Quorum uint32          `json:"quorum"`
	}
	if err := opts.ReadOptions("owners", &conf); err != nil {
		return err
	}
	reg, err := NewRegistry(conf.Owners, conf.Quorum)
	if err != nil {
		return errors.Wrap(err, "genesis owners")
	}
	return Save(kv, reg)
}
