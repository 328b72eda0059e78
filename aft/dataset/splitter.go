package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	roaring "github.com/RoaringBitmap/roaring"
)

// Common error types for split configuration
var (
	ErrInvalidFraction = errors.New("split fraction must be inside (0, 1)")
	ErrEmptySplit      = errors.New("split would leave a required partition empty")
	ErrNoInput         = errors.New("no samples to split")
)

// SplitConfig controls the deterministic train/validation/test partition.
// ValFraction is taken from the remainder after the test split, so effective
// shares are TestFraction and (1-TestFraction)*ValFraction. Seed pins both
// shuffles; the validation shuffle derives its seed as Seed+1.
type SplitConfig struct {
	TestFraction float64
	ValFraction  float64
	Seed         int64
}

// Validate surfaces malformed fractions before any shuffling happens.
func (c SplitConfig) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("%w: test fraction %v", ErrInvalidFraction, c.TestFraction)
	}
	if c.ValFraction <= 0 || c.ValFraction >= 1 {
		return fmt.Errorf("%w: validation fraction %v", ErrInvalidFraction, c.ValFraction)
	}
	return nil
}

// Splits holds the three disjoint partitions in their shuffled order, plus
// roaring bitmaps over source indices for invariant checks.
type Splits struct {
	Train      []string
	Validation []string
	Test       []string

	trainIdx *roaring.Bitmap
	valIdx   *roaring.Bitmap
	testIdx  *roaring.Bitmap
	total    uint64
}

// Split partitions samples into train/validation/test. For a fixed seed and
// fixed input order, repeated calls produce byte-identical partitions.
// Train and test must be non-empty; an empty validation set is tolerated for
// tiny corpora but logged, since the trainer may want one.
func Split(samples []string, cfg SplitConfig) (*Splits, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(samples)
	if n == 0 {
		return nil, ErrNoInput
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rand.New(rand.NewSource(cfg.Seed)).Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	nTest := int(float64(n) * cfg.TestFraction)
	if nTest < 1 {
		return nil, fmt.Errorf("%w: test set (%d of %d samples)", ErrEmptySplit, nTest, n)
	}
	testOrder := order[:nTest]
	rest := append([]int(nil), order[nTest:]...)

	rand.New(rand.NewSource(cfg.Seed + 1)).Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	nVal := int(float64(len(rest)) * cfg.ValFraction)
	valOrder := rest[:nVal]
	trainOrder := rest[nVal:]
	if len(trainOrder) == 0 {
		return nil, fmt.Errorf("%w: train set", ErrEmptySplit)
	}
	if nVal == 0 {
		slog.Warn("Validation split is empty", "samples", n, "val_fraction", cfg.ValFraction)
	}

	s := &Splits{
		Train:      pick(samples, trainOrder),
		Validation: pick(samples, valOrder),
		Test:       pick(samples, testOrder),
		trainIdx:   bitmapOf(trainOrder),
		valIdx:     bitmapOf(valOrder),
		testIdx:    bitmapOf(testOrder),
		total:      uint64(n),
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}

	slog.Debug("Split corpus",
		"train", len(s.Train),
		"validation", len(s.Validation),
		"test", len(s.Test),
		"seed", cfg.Seed)
	return s, nil
}

// Verify proves the partition invariants: pairwise-disjoint index sets whose
// union covers every source sample.
func (s *Splits) Verify() error {
	if roaring.And(s.trainIdx, s.valIdx).GetCardinality() != 0 ||
		roaring.And(s.trainIdx, s.testIdx).GetCardinality() != 0 ||
		roaring.And(s.valIdx, s.testIdx).GetCardinality() != 0 {
		return errors.New("split partitions overlap")
	}
	union := roaring.Or(roaring.Or(s.trainIdx, s.valIdx), s.testIdx)
	if union.GetCardinality() != s.total {
		return fmt.Errorf("split partitions cover %d of %d samples", union.GetCardinality(), s.total)
	}
	return nil
}

func pick(samples []string, order []int) []string {
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = samples[idx]
	}
	return out
}

func bitmapOf(order []int) *roaring.Bitmap {
	bm := roaring.New()
	for _, idx := range order {
		bm.Add(uint32(idx))
	}
	return bm
}
