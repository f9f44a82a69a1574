/*
Package orm maps models onto key prefixes of a KVStore.

A Bucket owns all keys starting with "<name>:". Sequences and counters keep
their state in keys that cannot collide with any bucket:

	_s.<bucket>:<name>   sequence
	_l.<bucket>:<name>   counter
*/
package orm
