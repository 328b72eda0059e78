package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ZanzyTHEbar/arith-finetune/aft/config"
	"github.com/ZanzyTHEbar/arith-finetune/aft/corpus"
	"github.com/ZanzyTHEbar/arith-finetune/aft/dataset"
	"github.com/ZanzyTHEbar/arith-finetune/aft/db"
	"github.com/ZanzyTHEbar/arith-finetune/aft/eval"
	"github.com/ZanzyTHEbar/arith-finetune/aft/model"
	"github.com/ZanzyTHEbar/arith-finetune/aft/tokenizer"
	"github.com/ZanzyTHEbar/arith-finetune/aft/training"

	"github.com/ZanzyTHEbar/assert-lib"
)

// Result bundles what one end-to-end run produced.
type Result struct {
	RunID   string
	Summary *training.Summary
	Report  *eval.Report
}

// Pipeline wires the deterministic core around the opaque trainer and
// generator capabilities: ingest, split, encode, train, export, evaluate.
type Pipeline struct {
	cfg           *config.Config
	tok           tokenizer.Tokenizer
	gen           model.Generator
	trainer       training.Trainer
	store         training.RunStore
	assertHandler *assert.AssertHandler
}

// New builds a pipeline from configuration. A nil trainer selects the
// deterministic dev trainer; the generator comes from model config.
func New(cfg *config.Config, trainer training.Trainer) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tok, err := tokenizer.NewTokenizer(tokenizer.Config{
		Provider:  cfg.Tokenizer.Provider,
		VocabPath: cfg.Tokenizer.VocabPath,
		MaxSeqLen: cfg.Tokenizer.MaxSeqLen,
	})
	if err != nil {
		return nil, err
	}

	if trainer == nil {
		trainer = training.NewDevTrainer()
	}

	var store training.RunStore
	if cfg.Artifacts.RunDB != "" {
		rs, err := db.NewRunStore(cfg.Artifacts.RunDB)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	return &Pipeline{
		cfg:           cfg,
		tok:           tok,
		gen:           model.NewGenerator(cfg.Model.Provider, cfg.Model.Path),
		trainer:       trainer,
		store:         store,
		assertHandler: assert.NewAssertHandler(),
	}, nil
}

// Run executes the whole lifecycle: build -> split -> encode -> train ->
// evaluate. It is linear and synchronous; cancellation comes from ctx.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	samples, err := p.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	corpus.NewDuplicateIndex().Scan(samples)

	splits, err := dataset.Split(samples, dataset.SplitConfig{
		TestFraction: p.cfg.Split.TestFraction,
		ValFraction:  p.cfg.Split.ValFraction,
		Seed:         p.cfg.Split.Seed,
	})
	if err != nil {
		return nil, err
	}

	maxLen := p.cfg.Tokenizer.MaxSeqLen
	trainSet, err := dataset.NewTokenizedDataset(splits.Train, p.tok, maxLen)
	if err != nil {
		return nil, fmt.Errorf("train set: %w", err)
	}
	valSet, err := dataset.NewTokenizedDataset(splits.Validation, p.tok, maxLen)
	if err != nil {
		return nil, fmt.Errorf("validation set: %w", err)
	}
	testSet, err := dataset.NewTokenizedDataset(splits.Test, p.tok, maxLen)
	if err != nil {
		return nil, fmt.Errorf("test set: %w", err)
	}

	session, err := training.NewSession(p.trainer, p.store, training.TrainConfig{
		Epochs:       p.cfg.Training.Epochs,
		BatchSize:    p.cfg.Training.BatchSize,
		LearningRate: p.cfg.Training.LearningRate,
		LogInterval:  p.cfg.Training.LogInterval,
	})
	if err != nil {
		return nil, err
	}

	summary, err := session.Run(ctx, trainSet, valSet, p.cfg.Artifacts.LossPath)
	if err != nil {
		return nil, err
	}

	rows := eval.Evaluate(ctx, testSet, p.gen, p.tok, p.cfg.Eval.Samples, p.cfg.Model.MaxNewTokens)
	report := eval.BuildReport(rows)

	if err := session.Complete(report.Accuracy()); err != nil {
		slog.Warn("Failed to persist run results", "run_id", session.ID, "error", err)
	}

	return &Result{RunID: session.ID.String(), Summary: summary, Report: report}, nil
}

// Close releases the run store if one was opened.
func (p *Pipeline) Close() error {
	if closer, ok := p.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func (p *Pipeline) loadCorpus(ctx context.Context) ([]string, error) {
	path := p.cfg.Corpus.Path
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus path %s: %v", config.ErrInvalidConfig, path, err)
	}
	if info.IsDir() {
		return corpus.LoadDir(ctx, path)
	}
	return corpus.LoadFile(path)
}
