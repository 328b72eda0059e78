package dataset

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZanzyTHEbar/arith-finetune/aft/tokenizer"
)

// ErrBadMaxLength indicates a non-positive sequence length bound.
var ErrBadMaxLength = errors.New("max sequence length must be positive")

// EncodedSample is the tokenized form of one raw sample. The three sequences
// always have equal length: ids padded with the tokenizer's pad id, mask 1 for
// real tokens and 0 for padding, labels an exact copy of the ids for
// self-supervised next-token loss.
type EncodedSample struct {
	InputIDs      []int64
	AttentionMask []int64
	Labels        []int64
}

// TokenizedDataset wraps one split behind a fixed-size random-access
// container. Construction tokenizes every sample eagerly in one batch and pads
// all rows to the longest sample in the set, capped at the length bound.
// Arithmetic text is short, so the memory-for-simplicity trade is fine.
type TokenizedDataset struct {
	raw     []string
	encoded []EncodedSample
	seqLen  int
}

// NewTokenizedDataset eagerly encodes samples. A tokenization failure
// propagates; samples are never dropped silently.
func NewTokenizedDataset(samples []string, tok tokenizer.Tokenizer, maxLen int) (*TokenizedDataset, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadMaxLength, maxLen)
	}

	ids, masks, err := tok.Tokenize(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize dataset: %w", err)
	}

	seqLen := 0
	for _, row := range ids {
		if len(row) > seqLen {
			seqLen = len(row)
		}
	}
	if seqLen > maxLen {
		slog.Debug("Capping dataset sequence length", "longest", seqLen, "cap", maxLen)
		seqLen = maxLen
	}

	pad := tok.PadID()
	encoded := make([]EncodedSample, len(samples))
	for i := range samples {
		encoded[i] = encodeRow(ids[i], masks[i], seqLen, pad)
	}

	return &TokenizedDataset{raw: samples, encoded: encoded, seqLen: seqLen}, nil
}

// Len returns the number of samples in the set.
func (d *TokenizedDataset) Len() int { return len(d.encoded) }

// SeqLen returns the common padded length of every row.
func (d *TokenizedDataset) SeqLen() int { return d.seqLen }

// Get returns the encoded sample at index i.
func (d *TokenizedDataset) Get(i int) EncodedSample { return d.encoded[i] }

// Raw returns the raw text the sample at index i was encoded from.
func (d *TokenizedDataset) Raw(i int) string { return d.raw[i] }

func encodeRow(ids, mask []int64, seqLen int, pad int64) EncodedSample {
	rowIDs := make([]int64, seqLen)
	rowMask := make([]int64, seqLen)
	n := len(ids)
	if n > seqLen {
		n = seqLen
	}
	for j := 0; j < n; j++ {
		rowIDs[j] = ids[j]
		if j < len(mask) {
			rowMask[j] = mask[j]
		} else {
			rowMask[j] = 1
		}
	}
	for j := n; j < seqLen; j++ {
		rowIDs[j] = pad
	}
	labels := make([]int64, seqLen)
	copy(labels, rowIDs)
	return EncodedSample{InputIDs: rowIDs, AttentionMask: rowMask, Labels: labels}
}
