package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// TransactionBucket holds the journal, keyed by the 8 byte index.
	TransactionBucket = "wtx"
	// ConfirmationBucket holds one record per (index, owner) confirmation.
	ConfirmationBucket = "wconf"
	// IndexSequence counts the submitted transactions.
	IndexSequence = "id"
)

// Transaction is a proposed transfer out of the vault.
type Transaction struct {
	Recipient         vault.Address
	Amount            uint64
	Payload           []byte
	Executed          bool
	ConfirmationCount uint32
}

var _ orm.Model = (*Transaction)(nil)

type transactionData struct {
	Recipient         []byte `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount            uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
	Payload           []byte `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	Executed          bool   `protobuf:"varint,4,opt,name=executed,proto3" json:"executed,omitempty"`
	ConfirmationCount uint32 `protobuf:"varint,5,opt,name=confirmation_count,json=confirmationCount,proto3" json:"confirmation_count,omitempty"`
}

func (m *transactionData) Reset()         { *m = transactionData{} }
func (m *transactionData) String() string { return proto.CompactTextString(m) }
func (*transactionData) ProtoMessage()    {}

func (t *Transaction) Marshal() ([]byte, error) {
	return proto.Marshal(&transactionData{
		Recipient:         t.Recipient,
		Amount:            t.Amount,
		Payload:           t.Payload,
		Executed:          t.Executed,
		ConfirmationCount: t.ConfirmationCount,
	})
}

func (t *Transaction) Unmarshal(raw []byte) error {
	var d transactionData
	if err := proto.Unmarshal(raw, &d); err != nil {
		return err
	}
	*t = Transaction{
		Recipient:         d.Recipient,
		Amount:            d.Amount,
		Payload:           d.Payload,
		Executed:          d.Executed,
		ConfirmationCount: d.ConfirmationCount,
	}
	return nil
}

func (t *Transaction) Validate() error {
	var errs error
	if err := t.Recipient.Validate(); err != nil {
		errs = errors.AppendField(errs, "Recipient", err)
	} else if t.Recipient.IsZero() {
		errs = errors.AppendField(errs, "Recipient", errors.Wrap(errors.ErrInvalidInput, "zero address"))
	}
	return errs
}

// Confirmation marks that an owner approved a transaction. Only its
// presence matters.
type Confirmation struct {
	Owner vault.Address
}

var _ orm.Model = (*Confirmation)(nil)

type confirmationData struct {
	Owner []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (m *confirmationData) Reset()         { *m = confirmationData{} }
func (m *confirmationData) String() string { return proto.CompactTextString(m) }
func (*confirmationData) ProtoMessage()    {}

func (c *Confirmation) Marshal() ([]byte, error) {
	return proto.Marshal(&confirmationData{Owner: c.Owner})
}

func (c *Confirmation) Unmarshal(raw []byte) error {
	var d confirmationData
	if err := proto.Unmarshal(raw, &d); err != nil {
		return err
	}
	c.Owner = d.Owner
	return nil
}

func (c *Confirmation) Validate() error {
	return errors.Field("Owner", c.Owner.Validate(), "")
}

func indexKey(index uint64) []byte {
	return orm.EncodeSequence(index)
}

func confirmationKey(index uint64, owner vault.Address) []byte {
	return append(indexKey(index), owner...)
}
