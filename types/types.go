package types

import (
	"cmp"
	"fmt"
)

const (
	// UInt64Length is the number of bytes taken by uint64.
	UInt64Length = 8

	// KeyLength is the number of bytes taken by packed key.
	KeyLength = 2 * UInt64Length

	// MaxPrefixHexLength is the longest prefix, in hex digits, which fits the high word of the key.
	MaxPrefixHexLength = 2 * UInt64Length
)

// Key is the packed key: 128-bit integer equal to (Prefix << 64) | X.
// Fields are ordered from the most significant word, so comparing keys compares those integers.
type Key struct {
	Prefix uint64
	X      uint64
}

// Compare compares keys numerically.
func (k Key) Compare(k2 Key) int {
	if c := cmp.Compare(k.Prefix, k2.Prefix); c != 0 {
		return c
	}
	return cmp.Compare(k.X, k2.X)
}

// String returns the packed integer as 32 hex digits.
func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.Prefix, k.X)
}

// Candidate is a pair of keys adjacent in merged order, with equal prefixes and distinct inputs.
type Candidate struct {
	Prev Key
	Cur  Key
}

// Collision is the collision confirmed by rehashing both inputs.
type Collision struct {
	Prefix uint64
	X1     uint64
	X2     uint64
	Hash1  string
	Hash2  string
}
