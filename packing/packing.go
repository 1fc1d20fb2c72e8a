package packing

import (
	"encoding/binary"

	"github.com/outofforest/birthday/types"
)

// Pack packs prefix and input into single key.
func Pack(prefix, x uint64) types.Key {
	return types.Key{
		Prefix: prefix,
		X:      x,
	}
}

// Unpack returns prefix and input stored in the key.
func Unpack(k types.Key) (uint64, uint64) {
	return k.Prefix, k.X
}

// PrefixBits returns the number of bits in prefix of hexLen hex digits.
func PrefixBits(hexLen int) uint {
	return uint(hexLen) * 4
}

// PrefixBytes returns the number of leading digest bytes containing the prefix.
func PrefixBytes(hexLen int) int {
	return (int(PrefixBits(hexLen)) + 7) / 8
}

// PrefixFromDigest returns the leading hexLen*4 bits of the digest as integer.
// Digest must be at least PrefixBytes(hexLen) long and hexLen must not exceed types.MaxPrefixHexLength.
func PrefixFromDigest(digest []byte, hexLen int) uint64 {
	n := PrefixBytes(hexLen)

	var prefix uint64
	for _, b := range digest[:n] {
		prefix = prefix<<8 | uint64(b)
	}

	// Odd number of hex digits leaves lower half of the last byte to drop.
	return prefix >> (uint(n)*8 - PrefixBits(hexLen))
}

// InputBytes returns big-endian encoding of the input, the form which is hashed and persisted.
func InputBytes(x uint64) [types.UInt64Length]byte {
	var b [types.UInt64Length]byte
	binary.BigEndian.PutUint64(b[:], x)
	return b
}
