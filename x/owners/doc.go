/*
Package owners holds the fixed set of identities that control a vault,
together with the number of them that must approve a transfer.

The set is created once, either directly or from the "owners" section of a
genesis document, and can never change afterwards.
*/
package owners
