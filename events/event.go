/*
Package events describes what happened to a vault after an operation was
committed and delivers it to interested parties.

Events are created by the wallet engine and handed to a Sink once the
operation that raised them has been committed. Operations that fail never
produce events.
*/
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/vault"
)

// Kind names the operation that raised an event.
type Kind string

const (
	KindDeposit Kind = "deposit"
	KindSubmit  Kind = "submit"
	KindConfirm Kind = "confirm"
	KindRevoke  Kind = "revoke"
	KindExecute Kind = "execute"
)

// Event is a single committed state change.
type Event struct {
	ID     uuid.UUID     `json:"id"`
	Kind   Kind          `json:"kind"`
	Caller vault.Address `json:"caller"`
	// Index is nil for deposits.
	Index         *uint64       `json:"index,omitempty"`
	Recipient     vault.Address `json:"recipient,omitempty"`
	Amount        uint64        `json:"amount"`
	Payload       []byte        `json:"payload,omitempty"`
	Confirmations uint32        `json:"confirmations"`
	Balance       uint64        `json:"balance"`
	Time          time.Time     `json:"time"`
}

// New returns an event with a fresh random ID.
func New(kind Kind, caller vault.Address, now time.Time) Event {
	return Event{
		ID:     uuid.New(),
		Kind:   kind,
		Caller: caller,
		Time:   now.UTC(),
	}
}

// WithIndex sets the transaction index.
func (e Event) WithIndex(index uint64) Event {
	e.Index = &index
	return e
}

// Encode returns the JSON representation used by all network sinks.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses the output of Encode.
func Decode(raw []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(raw, &e)
	return e, err
}
