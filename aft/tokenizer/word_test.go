package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordTokenizerRoundTrip(t *testing.T) {
	tok := NewWordTokenizer(512)

	texts := []string{"What is 2+2? 4", "3+3? 6"}
	ids, masks, err := tok.Tokenize(texts)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Len(t, masks, 2)

	for i := range ids {
		assert.Equal(t, len(ids[i]), len(masks[i]))
		for _, m := range masks[i] {
			assert.Equal(t, int64(1), m)
		}
		assert.Equal(t, texts[i], tok.Decode(ids[i], true))
	}
}

func TestWordTokenizerDeterministic(t *testing.T) {
	a := NewWordTokenizer(512)
	b := NewWordTokenizer(512)

	texts := []string{"2+2? 4", "3+3? 6", "2+2? 4"}
	idsA, _, err := a.Tokenize(texts)
	require.NoError(t, err)
	idsB, _, err := b.Tokenize(texts)
	require.NoError(t, err)

	assert.Equal(t, idsA, idsB)
	// Repeated text encodes to identical rows.
	assert.Equal(t, idsA[0], idsA[2])
}

func TestWordTokenizerTruncation(t *testing.T) {
	tok := NewWordTokenizer(3)

	ids, masks, err := tok.Tokenize([]string{"a b c d e"})
	require.NoError(t, err)
	assert.Len(t, ids[0], 3)
	assert.Len(t, masks[0], 3)
}

func TestWordTokenizerInvalidUTF8(t *testing.T) {
	tok := NewWordTokenizer(512)

	_, _, err := tok.Tokenize([]string{string([]byte{0xff, 0xfe})})
	assert.ErrorIs(t, err, ErrEncode)
}

func TestWordTokenizerDecodeSkipsSpecial(t *testing.T) {
	tok := NewWordTokenizer(512)

	ids, _, err := tok.Tokenize([]string{"2+2? 4"})
	require.NoError(t, err)

	padded := append(append([]int64{}, ids[0]...), tok.EOSID(), tok.PadID(), tok.PadID())
	assert.Equal(t, "2+2? 4", tok.Decode(padded, true))
	assert.Equal(t, "2+2? 4 <eos> <pad> <pad>", tok.Decode(padded, false))
}

func TestNewTokenizerSelection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  bool
		wantWord bool
	}{
		{"DefaultIsWord", Config{MaxSeqLen: 16}, false, true},
		{"DevIsWord", Config{Provider: "dev", MaxSeqLen: 16}, false, true},
		{"UnknownFallsBack", Config{Provider: "bpe", MaxSeqLen: 16}, false, true},
		{"WordPieceNeedsVocab", Config{Provider: "wordpiece", MaxSeqLen: 16}, true, false},
		{"ZeroMaxLen", Config{MaxSeqLen: 0}, true, false},
		{"NegativeMaxLen", Config{MaxSeqLen: -1}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewTokenizer(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantWord {
				_, ok := tok.(*WordTokenizer)
				assert.True(t, ok)
			}
		})
	}
}
