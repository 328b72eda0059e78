package corpus

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Common error types used across corpus ingestion
var (
	ErrEmptyCorpus = errors.New("corpus contains no lines")
	ErrNoSamples   = errors.New("corpus yielded no samples")
)

// BuildSamples pairs consecutive lines into single-text samples: line 2k is the
// question, line 2k+1 is the answer, joined by one space. Each line is stripped
// of surrounding whitespace first. A trailing unpaired line is dropped.
func BuildSamples(lines []string) []string {
	samples := make([]string, 0, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		q := strings.TrimSpace(lines[i])
		a := strings.TrimSpace(lines[i+1])
		samples = append(samples, q+" "+a)
	}
	if len(lines)%2 != 0 {
		slog.Debug("Dropping unpaired trailing line", "line_count", len(lines))
	}
	return samples
}

// ReadLines reads every line from r, preserving order. Blank lines are kept so
// that question/answer pairing stays aligned with the source file.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
