package eval

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Outcome classifies one evaluated row.
type Outcome int

const (
	Correct Outcome = iota
	WrongAnswer
	EmptyPrediction
	EmptyTruth
)

// Report aggregates evaluation rows into accuracy and an error breakdown.
type Report struct {
	Rows      []Row
	Correct   int
	Wrong     int
	EmptyPred int
	EmptyTrue int
}

// Classify buckets a single row.
func Classify(r Row) Outcome {
	switch {
	case r.Truth == "":
		return EmptyTruth
	case r.Predicted == "":
		return EmptyPrediction
	case r.Truth == r.Predicted:
		return Correct
	default:
		return WrongAnswer
	}
}

// BuildReport tallies rows into a report.
func BuildReport(rows []Row) *Report {
	rep := &Report{Rows: rows}
	for _, r := range rows {
		switch Classify(r) {
		case Correct:
			rep.Correct++
		case WrongAnswer:
			rep.Wrong++
		case EmptyPrediction:
			rep.EmptyPred++
		case EmptyTruth:
			rep.EmptyTrue++
		}
	}
	return rep
}

// Accuracy is the fraction of rows whose prediction exactly matches the
// truth; zero when no rows were evaluated.
func (r *Report) Accuracy() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	return float64(r.Correct) / float64(len(r.Rows))
}

// String renders an aligned table of every row followed by the breakdown.
// Empty truth or prediction fields stay visibly blank so a reviewer notices
// malformed samples.
func (r *Report) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tTRUTH\tPREDICTED\tOUTCOME")
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Input, row.Truth, row.Predicted, outcomeLabel(Classify(row)))
	}
	w.Flush()

	fmt.Fprintf(&b, "\nsamples: %d  accuracy: %.4f\n", len(r.Rows), r.Accuracy())
	fmt.Fprintf(&b, "correct: %d  wrong: %d  empty prediction: %d  empty truth: %d\n",
		r.Correct, r.Wrong, r.EmptyPred, r.EmptyTrue)
	return b.String()
}

func outcomeLabel(o Outcome) string {
	switch o {
	case Correct:
		return "ok"
	case WrongAnswer:
		return "wrong"
	case EmptyPrediction:
		return "empty-prediction"
	case EmptyTruth:
		return "empty-truth"
	default:
		return "unknown"
	}
}
