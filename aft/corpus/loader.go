package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	internal "github.com/ZanzyTHEbar/arith-finetune/aft"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"
)

// IgnoreChecker interface for corpus ignore patterns
type IgnoreChecker interface {
	MatchesPath(path string) bool
}

// LoadFile reads a single corpus file and pairs its lines into samples.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCorpus
	}
	samples := BuildSamples(lines)
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}

// LoadDir collects every .txt file under dir (honoring an optional .aftignore
// in the root), reads them concurrently, and concatenates their samples in
// lexicographic path order so the output is deterministic regardless of
// goroutine scheduling.
func LoadDir(ctx context.Context, dir string) ([]string, error) {
	checker, err := loadIgnore(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		if checker != nil {
			rel, relErr := filepath.Rel(dir, path)
			if relErr == nil && checker.MatchesPath(rel) {
				slog.Debug("Skipping ignored corpus file", "path", path)
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus directory %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .txt files under %s", ErrEmptyCorpus, dir)
	}
	sort.Strings(paths)

	perFile := make([][]string, len(paths))
	var mu sync.Mutex

	workers := min(max(runtime.NumCPU(), 2), 16)
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			samples, err := LoadFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			perFile[i] = samples
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, samples := range perFile {
		all = append(all, samples...)
	}
	slog.Info("Loaded corpus directory", "dir", dir, "files", len(paths), "samples", len(all))
	return all, nil
}

// loadIgnore compiles the root .aftignore if present; a missing file is not an
// error, it just means nothing is ignored.
func loadIgnore(dir string) (IgnoreChecker, error) {
	ignorePath := filepath.Join(dir, internal.DefaultCorpusIgnore)

	if _, err := os.Stat(ignorePath); err == nil {
		ignored, err := ignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("error reading %s file: %w", internal.DefaultCorpusIgnore, err)
		}
		return ignored, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error checking for %s file: %w", internal.DefaultCorpusIgnore, err)
	}

	return nil, nil
}
