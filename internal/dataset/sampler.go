package dataset

import (
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// RandSource is the randomness the sampler draws from.
// *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewSource returns a PCG source. A zero seed picks one from the clock,
// so production runs differ while tests can pin a value.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample draws n distinct items uniformly without replacement.
func Sample(ds model.Dataset, n int, src RandSource) (model.Sample, error) {
	if n > len(ds) {
		return nil, errors.Mark(
			errors.Newf("sample size %d exceeds dataset size %d", n, len(ds)),
			model.ErrInsufficientData,
		)
	}
	if n < 0 {
		return nil, errors.Newf("sample size %d is negative", n)
	}

	// Partial Fisher-Yates over positions; the dataset itself is never mutated.
	idx := make([]int, len(ds))
	for i := range idx {
		idx[i] = i
	}
	out := make(model.Sample, n)
	for i := 0; i < n; i++ {
		j := i + src.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = ds[idx[i]]
	}
	return out, nil
}
