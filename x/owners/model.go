package owners

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// BucketName is where the configuration is stored.
	BucketName = "owners"
	configKey  = "config"
)

// Config is the persisted form of a registry.
type Config struct {
	Owners []vault.Address
	Quorum uint32
}

var _ orm.Model = (*Config)(nil)

// configData is the wire representation of Config.
type configData struct {
	Owners [][]byte `protobuf:"bytes,1,rep,name=owners,proto3" json:"owners,omitempty"`
	Quorum uint32   `protobuf:"varint,2,opt,name=quorum,proto3" json:"quorum,omitempty"`
}

func (m *configData) Reset()         { *m = configData{} }
func (m *configData) String() string { return proto.CompactTextString(m) }
func (*configData) ProtoMessage()    {}

// Marshal encodes the configuration with protobuf.
func (c *Config) Marshal() ([]byte, error) {
	d := configData{Quorum: c.Quorum}
	for _, o := range c.Owners {
		d.Owners = append(d.Owners, o)
	}
	return proto.Marshal(&d)
}

// Unmarshal decodes a protobuf encoded configuration.
func (c *Config) Unmarshal(raw []byte) error {
	var d configData
	if err := proto.Unmarshal(raw, &d); err != nil {
		return err
	}
	c.Owners = make([]vault.Address, len(d.Owners))
	for i, o := range d.Owners {
		c.Owners[i] = o
	}
	c.Quorum = d.Quorum
	return nil
}

// Validate checks the configuration the same way NewRegistry does.
func (c *Config) Validate() error {
	_, err := NewRegistry(c.Owners, c.Quorum)
	return err
}

// Save persists the registry. The owner set is immutable, so saving into a
// store that already holds one fails.
func Save(db vault.KVStore, r *Registry) error {
	b := orm.NewBucket(BucketName)
	ok, err := b.Has(db, []byte(configKey))
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrap(errors.ErrInvalidConfiguration, "already initialized")
	}
	return b.Put(db, []byte(configKey), &Config{Owners: r.owners, Quorum: r.quorum})
}

// Load rebuilds the registry from the store. It returns ErrNotFound if none
// was saved.
func Load(db vault.ReadOnlyKVStore) (*Registry, error) {
	var c Config
	if err := orm.NewBucket(BucketName).One(db, []byte(configKey), &c); err != nil {
		return nil, err
	}
	return NewRegistry(c.Owners, c.Quorum)
}
