package dataset

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSamples(n int) []string {
	samples := make([]string, n)
	for i := range samples {
		samples[i] = fmt.Sprintf("%d+%d? %d", i, i, i+i)
	}
	return samples
}

func TestSplitConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  SplitConfig
		ok   bool
	}{
		{"Valid", SplitConfig{TestFraction: 0.2, ValFraction: 0.1, Seed: 42}, true},
		{"TestFractionZero", SplitConfig{TestFraction: 0, ValFraction: 0.1}, false},
		{"TestFractionOne", SplitConfig{TestFraction: 1, ValFraction: 0.1}, false},
		{"TestFractionNegative", SplitConfig{TestFraction: -0.5, ValFraction: 0.1}, false},
		{"ValFractionZero", SplitConfig{TestFraction: 0.2, ValFraction: 0}, false},
		{"ValFractionOverOne", SplitConfig{TestFraction: 0.2, ValFraction: 1.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidFraction)
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	samples := makeSamples(100)
	cfg := SplitConfig{TestFraction: 0.2, ValFraction: 0.1, Seed: 42}

	first, err := Split(samples, cfg)
	require.NoError(t, err)

	// Same seed and input order reproduce identical partitions, element for
	// element, across repeated runs.
	for i := 0; i < 3; i++ {
		again, err := Split(samples, cfg)
		require.NoError(t, err)
		assert.Equal(t, first.Train, again.Train)
		assert.Equal(t, first.Validation, again.Validation)
		assert.Equal(t, first.Test, again.Test)
	}
}

func TestSplitSeedChangesPartition(t *testing.T) {
	samples := makeSamples(100)

	a, err := Split(samples, SplitConfig{TestFraction: 0.2, ValFraction: 0.1, Seed: 1})
	require.NoError(t, err)
	b, err := Split(samples, SplitConfig{TestFraction: 0.2, ValFraction: 0.1, Seed: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a.Test, b.Test)
}

func TestSplitProportions(t *testing.T) {
	samples := makeSamples(100)
	s, err := Split(samples, SplitConfig{TestFraction: 0.2, ValFraction: 0.1, Seed: 42})
	require.NoError(t, err)

	// 20 test, 10% of the remaining 80 -> 8 validation, 72 train.
	assert.Len(t, s.Test, 20)
	assert.Len(t, s.Validation, 8)
	assert.Len(t, s.Train, 72)
}

func TestSplitDisjointUnion(t *testing.T) {
	samples := makeSamples(50)
	s, err := Split(samples, SplitConfig{TestFraction: 0.3, ValFraction: 0.2, Seed: 7})
	require.NoError(t, err)
	require.NoError(t, s.Verify())

	var all []string
	all = append(all, s.Train...)
	all = append(all, s.Validation...)
	all = append(all, s.Test...)
	assert.Len(t, all, 50)

	sort.Strings(all)
	want := append([]string(nil), samples...)
	sort.Strings(want)
	assert.Equal(t, want, all)
}

func TestSplitTwoSamples(t *testing.T) {
	// 4 input lines -> 2 samples; with 0.5/0.5 one lands in test, the other in
	// train, and the assignment is reproducible across runs.
	samples := []string{"2+2? 4", "3+3? 6"}
	cfg := SplitConfig{TestFraction: 0.5, ValFraction: 0.5, Seed: 42}

	first, err := Split(samples, cfg)
	require.NoError(t, err)
	assert.Len(t, first.Test, 1)
	assert.Len(t, first.Train, 1)
	assert.Empty(t, first.Validation)
	assert.NotEqual(t, first.Test[0], first.Train[0])

	again, err := Split(samples, cfg)
	require.NoError(t, err)
	assert.Equal(t, first.Test, again.Test)
	assert.Equal(t, first.Train, again.Train)
}

func TestSplitErrors(t *testing.T) {
	t.Run("NoInput", func(t *testing.T) {
		_, err := Split(nil, SplitConfig{TestFraction: 0.2, ValFraction: 0.1})
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("TestSetEmpty", func(t *testing.T) {
		// 2 samples at 0.1 test fraction floors to zero test samples.
		_, err := Split(makeSamples(2), SplitConfig{TestFraction: 0.1, ValFraction: 0.1})
		assert.ErrorIs(t, err, ErrEmptySplit)
	})
}
