package eval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ZanzyTHEbar/arith-finetune/aft/dataset"
	"github.com/ZanzyTHEbar/arith-finetune/aft/model"
	"github.com/ZanzyTHEbar/arith-finetune/aft/tokenizer"
)

// Row is one evaluated test sample: the decoded input, the ground-truth
// answer token, and the model's predicted token, side by side.
type Row struct {
	Input     string
	Truth     string
	Predicted string
}

// Evaluate runs greedy generation over up to n samples from the test set and
// compares the last whitespace-delimited token of the decoded output against
// the input's.
//
// Precondition: the corpus format guarantees each sample's final token is the
// answer. The extraction rule is only correct under that format and is not
// validated here; a sample with no tokens yields a visibly empty field.
//
// A failed generation is logged and skipped; evaluation continues with the
// remaining samples.
func Evaluate(ctx context.Context, ds *dataset.TokenizedDataset, gen model.Generator, tok tokenizer.Tokenizer, n, maxNew int) []Row {
	if n > ds.Len() {
		n = ds.Len()
	}

	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		enc := ds.Get(i)
		prompt := realTokens(enc)
		input := tok.Decode(prompt, true)

		out, err := gen.Generate(ctx, prompt, maxNew, tok.EOSID())
		if err != nil {
			slog.Warn("Generation failed, skipping sample",
				"index", i,
				"input", input,
				"error", err)
			continue
		}

		rows = append(rows, Row{
			Input:     input,
			Truth:     lastToken(input),
			Predicted: lastToken(tok.Decode(out, true)),
		})
	}
	return rows
}

// realTokens strips padding positions using the attention mask.
func realTokens(enc dataset.EncodedSample) []int64 {
	out := make([]int64, 0, len(enc.InputIDs))
	for i, id := range enc.InputIDs {
		if i < len(enc.AttentionMask) && enc.AttentionMask[i] == 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}

// lastToken returns the final whitespace-delimited token, or "" when the text
// has none.
func lastToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
