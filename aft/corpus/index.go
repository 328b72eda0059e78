package corpus

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/armon/go-radix"
)

// DuplicateStats tracks what the index has seen so far
type DuplicateStats struct {
	TotalQuestions  int64
	UniqueQuestions int64
	Duplicates      int64
	mu              sync.RWMutex
}

// DuplicateIndex detects repeated questions in a synthetic corpus using a
// compressed trie keyed on the question part of each sample. Lookups and
// insertions are O(k) in the question length. The index only reports; it never
// mutates the sample sequence.
type DuplicateIndex struct {
	tree  *radix.Tree
	mu    sync.RWMutex
	stats *DuplicateStats
}

// NewDuplicateIndex creates an empty duplicate-question index
func NewDuplicateIndex() *DuplicateIndex {
	return &DuplicateIndex{
		tree:  radix.New(),
		stats: &DuplicateStats{},
	}
}

// Add records one sample's question and returns how many times it has now been
// seen, including this occurrence.
func (idx *DuplicateIndex) Add(sample string) int {
	question := questionOf(sample)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	count := 1
	if prev, ok := idx.tree.Get(question); ok {
		count = prev.(int) + 1
	}
	idx.tree.Insert(question, count)

	idx.stats.mu.Lock()
	idx.stats.TotalQuestions++
	if count == 1 {
		idx.stats.UniqueQuestions++
	} else {
		idx.stats.Duplicates++
	}
	idx.stats.mu.Unlock()

	return count
}

// Scan adds every sample and logs a summary of duplicate questions found.
func (idx *DuplicateIndex) Scan(samples []string) {
	for _, s := range samples {
		idx.Add(s)
	}
	total, unique, dups := idx.Stats()
	if dups > 0 {
		slog.Warn("Corpus contains duplicate questions",
			"total", total,
			"unique", unique,
			"duplicates", dups)
	} else {
		slog.Debug("Corpus duplicate scan complete", "total", total, "unique", unique)
	}
}

// Count returns how many times a question has been seen.
func (idx *DuplicateIndex) Count(question string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if v, ok := idx.tree.Get(question); ok {
		return v.(int)
	}
	return 0
}

// Stats returns (total, unique, duplicates) counts.
func (idx *DuplicateIndex) Stats() (int64, int64, int64) {
	idx.stats.mu.RLock()
	defer idx.stats.mu.RUnlock()
	return idx.stats.TotalQuestions, idx.stats.UniqueQuestions, idx.stats.Duplicates
}

// questionOf strips the trailing answer token from a sample; a sample with a
// single token is treated as all question.
func questionOf(sample string) string {
	i := strings.LastIndexByte(strings.TrimSpace(sample), ' ')
	if i < 0 {
		return sample
	}
	return strings.TrimSpace(sample)[:i]
}
