package collision

import (
	"context"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/birthday/hash"
	"github.com/outofforest/birthday/merge"
	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/test"
	"github.com/outofforest/birthday/types"
	"github.com/outofforest/birthday/verify"
)

const prefixHexLen = 4

type recordingVerifier struct {
	verifier   Verifier
	candidates []types.Candidate
	reject     int
}

func (v *recordingVerifier) Verify(candidate types.Candidate) (types.Collision, error) {
	v.candidates = append(v.candidates, candidate)
	if len(v.candidates) <= v.reject {
		return types.Collision{}, errors.New("rejected")
	}
	return v.verifier.Verify(candidate)
}

func sha256(t *testing.T) hash.Algorithm {
	a, err := hash.Get(hash.SHA256)
	require.NoError(t, err)
	return a
}

func key(a hash.Algorithm, x uint64) types.Key {
	input := packing.InputBytes(x)
	return packing.Pack(packing.PrefixFromDigest(a.Sum(input[:]), prefixHexLen), x)
}

// engineeredPair returns two distinct inputs sharing the prefix. Zero prefix is reserved for fake keys.
func engineeredPair(t *testing.T, a hash.Algorithm) (types.Key, types.Key) {
	seen := map[uint64]types.Key{}
	for x := uint64(1); x < 1_000_000; x++ {
		k := key(a, x)
		if k.Prefix == 0 {
			continue
		}
		if k0, exists := seen[k.Prefix]; exists {
			return k0, k
		}
		seen[k.Prefix] = k
	}
	t.Fatal("no pair found")
	return types.Key{}, types.Key{}
}

// noise returns keys with real prefixes, all different from each other, from the excluded one and from zero.
func noise(a hash.Algorithm, excluded uint64, n int) []types.Key {
	seen := map[uint64]struct{}{0: {}, excluded: {}}
	keys := make([]types.Key, 0, n)
	for x := uint64(1 << 32); len(keys) < n; x++ {
		k := key(a, x)
		if _, exists := seen[k.Prefix]; exists {
			continue
		}
		seen[k.Prefix] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func sorted(keys ...types.Key) []types.Key {
	keys = slices.Clone(keys)
	slices.SortFunc(keys, types.Key.Compare)
	return keys
}

func TestFindEngineeredPair(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)
	keys := append(noise(a, k1.Prefix, 1000), k1, k2)

	v := &recordingVerifier{verifier: verify.New(a, prefixHexLen)}
	c, found, err := Find(test.Context(t), slices.Values(sorted(keys...)), v)
	requireT.NoError(err)
	requireT.True(found)
	requireT.Len(v.candidates, 1)

	x1, x2 := min(k1.X, k2.X), max(k1.X, k2.X)
	requireT.Equal(k1.Prefix, c.Prefix)
	requireT.Equal(x1, c.X1)
	requireT.Equal(x2, c.X2)
	requireT.Equal(c.Hash1[:prefixHexLen], c.Hash2[:prefixHexLen])
}

func TestFindOverMergedPartitions(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)
	keys := noise(a, k1.Prefix, 999)

	partitions := [][]types.Key{
		sorted(append(keys[:500:500], k1)...),
		sorted(append(keys[500:], k2)...),
	}

	c, found, err := Find(test.Context(t), merge.Merge(partitions), verify.New(a, prefixHexLen))
	requireT.NoError(err)
	requireT.True(found)
	requireT.ElementsMatch([]uint64{k1.X, k2.X}, []uint64{c.X1, c.X2})
}

func TestFindIgnoresDuplicateSample(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	keys := noise(a, 0, 100)
	keys = append(keys, keys[10], keys[20], keys[20])

	v := &recordingVerifier{verifier: verify.New(a, prefixHexLen)}
	_, found, err := Find(test.Context(t), slices.Values(sorted(keys...)), v)
	requireT.NoError(err)
	requireT.False(found)
	requireT.Empty(v.candidates)
}

func TestFindAfterDuplicateSample(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)
	keys := append(noise(a, k1.Prefix, 100), k1, k1, k1, k2)

	v := &recordingVerifier{verifier: verify.New(a, prefixHexLen)}
	c, found, err := Find(test.Context(t), slices.Values(sorted(keys...)), v)
	requireT.NoError(err)
	requireT.True(found)
	requireT.Len(v.candidates, 1)
	requireT.ElementsMatch([]uint64{k1.X, k2.X}, []uint64{c.X1, c.X2})
}

func TestFindContinuesAfterRejectedCandidate(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)
	keys := noise(a, k1.Prefix, 100)

	// Keys sharing fake prefix, lower than any real one, so they are scanned first.
	fake1 := packing.Pack(0, 1)
	fake2 := packing.Pack(0, 2)
	keys = append(keys, fake1, fake2, k1, k2)

	v := &recordingVerifier{verifier: verify.New(a, prefixHexLen), reject: 1}
	c, found, err := Find(test.Context(t), slices.Values(sorted(keys...)), v)
	requireT.NoError(err)
	requireT.True(found)
	requireT.Len(v.candidates, 2)
	requireT.Equal(types.Candidate{Prev: fake1, Cur: fake2}, v.candidates[0])
	requireT.ElementsMatch([]uint64{k1.X, k2.X}, []uint64{c.X1, c.X2})
}

func TestFindContinuesAfterMismatch(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)

	// Real verifier rejects keys carrying prefix which does not match their digests.
	n1 := key(a, 1<<40)
	n2 := key(a, 1<<41)
	for n1.Prefix == n2.Prefix {
		n2 = key(a, n2.X+1)
	}
	fake1 := packing.Pack(0, n1.X)
	fake2 := packing.Pack(0, n2.X)

	v := &recordingVerifier{verifier: verify.New(a, prefixHexLen)}
	keys := append(noise(a, k1.Prefix, 100), fake1, fake2, k1, k2)

	c, found, err := Find(test.Context(t), slices.Values(sorted(keys...)), v)
	requireT.NoError(err)
	requireT.True(found)
	requireT.Len(v.candidates, 2)
	requireT.ElementsMatch([]uint64{k1.X, k2.X}, []uint64{c.X1, c.X2})
}

func TestFindNothing(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	v := verify.New(a, prefixHexLen)

	_, found, err := Find(test.Context(t), slices.Values([]types.Key{}), v)
	requireT.NoError(err)
	requireT.False(found)

	_, found, err = Find(test.Context(t), slices.Values([]types.Key{key(a, 1)}), v)
	requireT.NoError(err)
	requireT.False(found)

	_, found, err = Find(test.Context(t), slices.Values(sorted(noise(a, 0, 500)...)), v)
	requireT.NoError(err)
	requireT.False(found)
}

func TestFindCanceled(t *testing.T) {
	requireT := require.New(t)

	a := sha256(t)
	k1, k2 := engineeredPair(t, a)

	ctx, cancel := context.WithCancel(test.Context(t))
	cancel()

	_, found, err := Find(ctx, slices.Values(sorted(k1, k2)), verify.New(a, prefixHexLen))
	requireT.Error(err)
	requireT.True(errors.Is(err, context.Canceled))
	requireT.False(found)
}
