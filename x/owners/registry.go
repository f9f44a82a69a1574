package owners

import (
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Registry is an immutable list of owners and the approval quorum.
type Registry struct {
	owners []vault.Address
	index  map[string]struct{}
	quorum uint32
}

// NewRegistry validates the configuration and returns a registry holding a
// copy of the owners in the given order.
func NewRegistry(owners []vault.Address, quorum uint32) (*Registry, error) {
	if len(owners) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidConfiguration, "no owners")
	}

	r := &Registry{
		owners: make([]vault.Address, 0, len(owners)),
		index:  make(map[string]struct{}, len(owners)),
		quorum: quorum,
	}
	var errs error
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			errs = errors.AppendField(errs, fieldName(i), err)
			continue
		}
		if o.IsZero() {
			errs = errors.AppendField(errs, fieldName(i), errors.Wrap(errors.ErrEmpty, "zero address"))
			continue
		}
		if _, ok := r.index[string(o)]; ok {
			errs = errors.AppendField(errs, fieldName(i), errors.Wrapf(errors.ErrDuplicate, "owner %s", o))
			continue
		}
		r.index[string(o)] = struct{}{}
		r.owners = append(r.owners, copyAddress(o))
	}
	if quorum == 0 {
		errs = errors.AppendField(errs, "Quorum", errors.Wrap(errors.ErrInvalidInput, "must be at least 1"))
	} else if int64(quorum) > int64(len(owners)) {
		errs = errors.AppendField(errs, "Quorum", errors.Wrapf(errors.ErrInvalidInput,
			"%d exceeds %d owners", quorum, len(owners)))
	}
	if errs != nil {
		return nil, errors.Append(errors.ErrInvalidConfiguration.New("owners"), errs)
	}
	return r, nil
}

func fieldName(i int) string {
	return "Owners." + strconv.Itoa(i)
}

// IsOwner returns true if addr is one of the owners.
func (r *Registry) IsOwner(addr vault.Address) bool {
	_, ok := r.index[string(addr)]
	return ok
}

// OwnerAt returns the owner at position i in the supplied order.
func (r *Registry) OwnerAt(i uint32) (vault.Address, error) {
	if uint64(i) >= uint64(len(r.owners)) {
		return nil, errors.Wrapf(errors.ErrIndexOutOfRange, "%d of %d owners", i, len(r.owners))
	}
	return copyAddress(r.owners[i]), nil
}

// OwnerCount returns the number of owners.
func (r *Registry) OwnerCount() uint32 {
	return uint32(len(r.owners))
}

// Quorum returns the number of confirmations required to execute.
func (r *Registry) Quorum() uint32 {
	return r.quorum
}

// Owners returns a copy of all owners in the supplied order.
func (r *Registry) Owners() []vault.Address {
	res := make([]vault.Address, len(r.owners))
	for i, o := range r.owners {
		res[i] = copyAddress(o)
	}
	return res
}

func copyAddress(a vault.Address) vault.Address {
	c := make(vault.Address, len(a))
	copy(c, a)
	return c
}
