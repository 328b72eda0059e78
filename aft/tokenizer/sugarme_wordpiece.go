package tokenizer

import (
	"fmt"
	"os"
	"strings"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/processor"
)

// SugarWordPiece wraps sugarme/tokenizer WordPiece (BERT-style)
type SugarWordPiece struct {
	t         *tk.Tokenizer
	maxSeqLen int
	padID     int64
	sepID     int64
}

// NewSugarWordPiece loads vocab.txt and builds a BERT WordPiece tokenizer
func NewSugarWordPiece(vocabPath string, maxSeq int) (*SugarWordPiece, error) {
	if vocabPath == "" {
		return nil, fmt.Errorf("%w: wordpiece provider requires a vocab path", ErrUnsupported)
	}
	wp, err := wordpiece.NewWordPieceFromFile(vocabPath, "[UNK]")
	if err != nil {
		return nil, fmt.Errorf("failed to load wordpiece vocab %s: %w", vocabPath, err)
	}

	t := tk.NewTokenizer(wp)

	// Basic normalizer and pre-tokenizer similar to BERT
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	// Special token ids come from the vocab file itself; fall back to the
	// standard BERT layout when a token is missing.
	padID, clsID, sepID := int64(0), 101, 102
	if content, err := os.ReadFile(vocabPath); err == nil {
		for idx, line := range splitLines(string(content)) {
			switch line {
			case "[PAD]":
				padID = int64(idx)
			case "[CLS]":
				clsID = idx
			case "[SEP]":
				sepID = idx
			}
		}
	}

	template := processor.NewBertProcessing(
		processor.PostToken{Value: "[SEP]", Id: sepID},
		processor.PostToken{Value: "[CLS]", Id: clsID},
	)
	t.WithPostProcessor(template)
	t.WithTruncation(&tk.TruncationParams{MaxLength: maxSeq})

	return &SugarWordPiece{t: t, maxSeqLen: maxSeq, padID: padID, sepID: int64(sepID)}, nil
}

func (s *SugarWordPiece) PadID() int64 { return s.padID }
func (s *SugarWordPiece) EOSID() int64 { return s.sepID }

// Tokenize encodes each text, truncated at the length bound. Rows come back
// unpadded with all-ones masks.
func (s *SugarWordPiece) Tokenize(texts []string) ([][]int64, [][]int64, error) {
	ids := make([][]int64, len(texts))
	masks := make([][]int64, len(texts))
	for i, txt := range texts {
		enc, err := s.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(txt)), true)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: sample %d: %v", ErrEncode, i, err)
		}
		uids := enc.GetIds()
		umask := enc.GetAttentionMask()

		n := len(uids)
		if n > s.maxSeqLen {
			n = s.maxSeqLen
		}
		rowIDs := make([]int64, n)
		rowMask := make([]int64, n)
		for j := 0; j < n; j++ {
			rowIDs[j] = int64(uids[j])
			if j < len(umask) {
				rowMask[j] = int64(umask[j])
			} else {
				rowMask[j] = 1
			}
		}
		ids[i] = rowIDs
		masks[i] = rowMask
	}
	return ids, masks, nil
}

// Decode maps ids back to text via the underlying tokenizer.
func (s *SugarWordPiece) Decode(ids []int64, skipSpecial bool) string {
	raw := make([]int, len(ids))
	for i, id := range ids {
		raw[i] = int(id)
	}
	return s.t.Decode(raw, skipSpecial)
}

func splitLines(s string) []string {
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
