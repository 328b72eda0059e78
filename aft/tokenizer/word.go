package tokenizer

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Special token ids for the word-level tokenizer.
const (
	wordPadID int64 = 0
	wordUnkID int64 = 1
	wordEOSID int64 = 2
)

// WordTokenizer is a deterministic whitespace tokenizer that grows its vocab
// in first-seen order. It needs no vocab file, which makes the pipeline's
// splitting, encoding-shape, and evaluation logic testable without a
// pretrained tokenizer. Decode(Tokenize(text)) round-trips any
// whitespace-normalized text shorter than the length bound.
type WordTokenizer struct {
	mu        sync.Mutex
	vocab     map[string]int64
	tokens    []string
	maxSeqLen int
}

// NewWordTokenizer creates a word-level tokenizer with an empty vocab.
func NewWordTokenizer(maxSeq int) *WordTokenizer {
	w := &WordTokenizer{
		vocab:     make(map[string]int64, 1024),
		tokens:    []string{"<pad>", "<unk>", "<eos>"},
		maxSeqLen: maxSeq,
	}
	for id, tok := range w.tokens {
		w.vocab[tok] = int64(id)
	}
	return w
}

func (w *WordTokenizer) PadID() int64 { return wordPadID }
func (w *WordTokenizer) EOSID() int64 { return wordEOSID }

// Tokenize encodes each text as whitespace-delimited words, assigning new ids
// in first-seen order. Rows are truncated at the length bound; masks are all
// ones since no padding happens here.
func (w *WordTokenizer) Tokenize(texts []string) ([][]int64, [][]int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([][]int64, len(texts))
	masks := make([][]int64, len(texts))
	for i, text := range texts {
		if !utf8.ValidString(text) {
			return nil, nil, fmt.Errorf("%w: sample %d is not valid UTF-8", ErrEncode, i)
		}
		words := strings.Fields(text)
		row := make([]int64, 0, len(words))
		for _, word := range words {
			id, ok := w.vocab[word]
			if !ok {
				id = int64(len(w.tokens))
				w.vocab[word] = id
				w.tokens = append(w.tokens, word)
			}
			row = append(row, id)
			if len(row) >= w.maxSeqLen {
				break
			}
		}
		mask := make([]int64, len(row))
		for j := range mask {
			mask[j] = 1
		}
		ids[i] = row
		masks[i] = mask
	}
	return ids, masks, nil
}

// Decode joins known tokens with single spaces. With skipSpecial set, pad,
// unk, and eos ids are omitted; otherwise their surface forms appear.
func (w *WordTokenizer) Decode(ids []int64, skipSpecial bool) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder
	for _, id := range ids {
		if skipSpecial && (id == wordPadID || id == wordUnkID || id == wordEOSID) {
			continue
		}
		if id < 0 || id >= int64(len(w.tokens)) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.tokens[id])
	}
	return b.String()
}
