/*
Package vault defines the common interfaces shared by the packages of the
multi-owner custody vault, together with the few value types (Address,
Options) that are too small to deserve their own package.

The vault keeps all of its state in a KVStore. Operations that must either
fully succeed or leave no trace run inside a cache wrap (a savepoint) that
is later written to its parent or discarded:

	cache := db.CacheWrap()
	if err := apply(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()

Extensions living under x/ build on top of these interfaces: x/owners holds
the authorized identities, x/wallet runs the transaction lifecycle and
x/cash moves value to recipients.
*/
package vault
