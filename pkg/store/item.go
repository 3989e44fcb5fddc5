// Package store defines the contracts shared by the tinystore façade and its
// persistence backends: the item capability set, the snapshot model, error
// kinds, and the observability seams. It depends on nothing but the standard
// library so that infra packages can import it freely.
package store

import "encoding"

// Item is the capability set every stored value must satisfy. It is expressed
// as a generic constraint rather than a base type: the store stays opaque to
// the values it holds and asks only for full-value equality, a deterministic
// hash over the entire value, cheap duplication, and a stable byte encoding.
//
// Hash must cover the whole value, not a derived key. The store has no
// primary-key concept; two items equal in every field are one item, and items
// differing in any field are distinct. Equal and Hash must agree: equal items
// must hash identically.
type Item[T any] interface {
	// Equal reports full-value equality with other.
	Equal(other T) bool
	// Hash returns a deterministic hash of the entire value.
	Hash() uint64
	// Clone returns an independent copy of the value.
	Clone() T
	// MarshalBinary encodes the value; the encoding must round-trip through
	// UnmarshalBinary on *T within one compiled item-type version.
	encoding.BinaryMarshaler
}

// ItemPtr constrains the pointer form of an item type to the decoding half of
// the contract. Load paths instantiate a zero T and decode through *T.
type ItemPtr[T any] interface {
	*T
	encoding.BinaryUnmarshaler
}
