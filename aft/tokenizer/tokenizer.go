package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// Tokenizer converts raw text to model-ready token IDs and attention masks,
// and back. Tokenize returns one row per input text, truncated at the
// configured maximum length; rows are not padded; callers that need a common
// length pad with PadID.
type Tokenizer interface {
	Tokenize(texts []string) (inputIDs [][]int64, attentionMasks [][]int64, err error)
	Decode(ids []int64, skipSpecial bool) string
	PadID() int64
	EOSID() int64
}

// Config holds basic tokenizer settings
type Config struct {
	Provider  string
	VocabPath string
	MaxSeqLen int
}

// ErrUnsupported indicates the tokenizer could not be initialized
var ErrUnsupported = errors.New("unsupported tokenizer configuration")

// ErrEncode indicates a text could not be encoded
var ErrEncode = errors.New("text could not be encoded")

// NewTokenizer selects a tokenizer by provider name. Unknown names fall back
// to the deterministic word-level tokenizer, which needs no vocab file.
func NewTokenizer(cfg Config) (Tokenizer, error) {
	if cfg.MaxSeqLen <= 0 {
		return nil, fmt.Errorf("%w: max sequence length must be positive, got %d", ErrUnsupported, cfg.MaxSeqLen)
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch name {
	case "wordpiece":
		return NewSugarWordPiece(cfg.VocabPath, cfg.MaxSeqLen)
	case "word", "", "dev":
		return NewWordTokenizer(cfg.MaxSeqLen), nil
	default:
		return NewWordTokenizer(cfg.MaxSeqLen), nil
	}
}
