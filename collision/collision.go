package collision

import (
	"context"
	"iter"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/birthday/packing"
	"github.com/outofforest/birthday/types"
	"github.com/outofforest/logger"
)

// checkInterval is the number of keys scanned between checks of the context.
const checkInterval = 4096

// Verifier confirms collision candidates.
type Verifier interface {
	Verify(candidate types.Candidate) (types.Collision, error)
}

// Find scans ascending keys for the first pair of adjacent keys with equal prefixes and different inputs,
// confirmed by the verifier. Candidates rejected by the verifier are logged and the scan continues.
// Keys equal to the previous one represent the same sample and are skipped.
// False is returned if keys are exhausted without finding a collision.
func Find(ctx context.Context, keys iter.Seq[types.Key], verifier Verifier) (types.Collision, bool, error) {
	log := logger.Get(ctx)

	var prev types.Key
	var scanned uint64
	for cur := range keys {
		if scanned%checkInterval == 0 && ctx.Err() != nil {
			return types.Collision{}, false, errors.WithStack(ctx.Err())
		}
		scanned++
		if scanned == 1 {
			prev = cur
			continue
		}

		prevPrefix, prevX := packing.Unpack(prev)
		curPrefix, curX := packing.Unpack(cur)
		prev = cur

		if prevPrefix != curPrefix || prevX == curX {
			continue
		}

		candidate := types.Candidate{
			Prev: packing.Pack(prevPrefix, prevX),
			Cur:  cur,
		}
		c, err := verifier.Verify(candidate)
		if err != nil {
			log.Warn("Collision candidate rejected",
				zap.Stringer("prev", candidate.Prev),
				zap.Stringer("cur", candidate.Cur),
				zap.Error(err))
			continue
		}
		return c, true, nil
	}

	return types.Collision{}, false, errors.WithStack(ctx.Err())
}
