package verify

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/types"
)

// ErrMismatch is returned when rehashed inputs do not share the prefix.
var ErrMismatch = errors.New("hash prefixes do not match")

// New creates new verifier.
func New(algorithm hash.Algorithm, prefixHexLen int) *Verifier {
	return &Verifier{
		algorithm:    algorithm,
		prefixHexLen: prefixHexLen,
	}
}

// Verifier confirms candidates by computing hashes of both inputs again.
type Verifier struct {
	algorithm    hash.Algorithm
	prefixHexLen int
}

// Verify returns the collision if hex digests of both inputs start with the same prefixHexLen characters.
func (v *Verifier) Verify(candidate types.Candidate) (types.Collision, error) {
	_, x1 := packing.Unpack(candidate.Prev)
	_, x2 := packing.Unpack(candidate.Cur)
	if x1 == x2 {
		return types.Collision{}, errors.Errorf("inputs are identical: %016x", x1)
	}

	digest1 := v.digest(x1)
	hash1 := hex.EncodeToString(digest1)
	hash2 := hex.EncodeToString(v.digest(x2))
	if len(hash1) < v.prefixHexLen || hash1[:v.prefixHexLen] != hash2[:v.prefixHexLen] {
		return types.Collision{}, errors.Wrapf(ErrMismatch, "x1: %016x, hash1: %s, x2: %016x, hash2: %s",
			x1, hash1, x2, hash2)
	}

	return types.Collision{
		Prefix: packing.PrefixFromDigest(digest1, v.prefixHexLen),
		X1:     x1,
		X2:     x2,
		Hash1:  hash1,
		Hash2:  hash2,
	}, nil
}

func (v *Verifier) digest(x uint64) []byte {
	input := packing.InputBytes(x)
	return v.algorithm.Reference(input[:])
}
