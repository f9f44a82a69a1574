package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault/orm"
)

// BucketName is where the accounts are stored.
const BucketName = "cash"

// Account is the amount received by a single address.
type Account struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*Account)(nil)

type accountData Account

func (m *accountData) Reset()         { *m = accountData{} }
func (m *accountData) String() string { return proto.CompactTextString(m) }
func (*accountData) ProtoMessage()    {}

func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal((*accountData)(a))
}

func (a *Account) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*accountData)(a))
}

// Validate is always successful. Any amount is a valid balance.
func (a *Account) Validate() error {
	return nil
}
