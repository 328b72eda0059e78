package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/arith-finetune/aft/dataset"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// ErrNoLosses indicates the trainer emitted no loss values.
var ErrNoLosses = errors.New("no loss values recorded")

// RunStore persists run metadata; the libsql-backed implementation lives in
// aft/db. A nil store disables persistence.
type RunStore interface {
	AddRun(id uuid.UUID, startedAt time.Time, configJSON string) error
	SetResults(id uuid.UUID, finalLoss, accuracy float64, lossPath string) error
}

// Summary describes the recorded loss trace.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	First float64
	Last  float64
	Min   float64
}

// Session owns one training run: it wires the recorder into the trainer,
// exports the loss trace, summarizes it, and registers the run.
type Session struct {
	ID       uuid.UUID
	trainer  Trainer
	recorder *LossRecorder
	store    RunStore
	cfg      TrainConfig
	lossPath string
	summary  *Summary
}

// NewSession creates a run with a fresh ID.
func NewSession(trainer Trainer, store RunStore, cfg TrainConfig) (*Session, error) {
	if trainer == nil {
		return nil, fmt.Errorf("%w: trainer is required", ErrBadTrainConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:       uuid.New(),
		trainer:  trainer,
		recorder: NewLossRecorder(),
		store:    store,
		cfg:      cfg,
	}, nil
}

// Recorder exposes the session's loss recorder.
func (s *Session) Recorder() *LossRecorder { return s.recorder }

// Run executes training, exports the loss trace to lossPath, and returns the
// trace summary.
func (s *Session) Run(ctx context.Context, train, val *dataset.TokenizedDataset, lossPath string) (*Summary, error) {
	started := time.Now()
	if s.store != nil {
		cfgJSON, err := json.Marshal(s.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode run config: %w", err)
		}
		if err := s.store.AddRun(s.ID, started, string(cfgJSON)); err != nil {
			return nil, fmt.Errorf("failed to register run %s: %w", s.ID, err)
		}
	}

	slog.Info("Starting training run",
		"run_id", s.ID,
		"train_samples", train.Len(),
		"val_samples", val.Len(),
		"epochs", s.cfg.Epochs)

	if err := s.trainer.Train(ctx, train, val, s.cfg, s.recorder.Record); err != nil {
		return nil, fmt.Errorf("training run %s failed: %w", s.ID, err)
	}

	if err := s.recorder.Export(lossPath); err != nil {
		return nil, err
	}
	s.lossPath = lossPath

	summary, err := Summarize(s.recorder.Values())
	if err != nil {
		return nil, err
	}
	s.summary = summary

	slog.Info("Training run complete",
		"run_id", s.ID,
		"duration", time.Since(started),
		"losses", summary.Count,
		"final_loss", summary.Last)
	return summary, nil
}

// Complete records the run's final results once evaluation accuracy is known.
// No-op without a store or before Run succeeds.
func (s *Session) Complete(accuracy float64) error {
	if s.store == nil || s.summary == nil {
		return nil
	}
	return s.store.SetResults(s.ID, s.summary.Last, accuracy, s.lossPath)
}

// Summarize computes trace statistics over the recorded losses.
func Summarize(values []float64) (*Summary, error) {
	if len(values) == 0 {
		return nil, ErrNoLosses
	}
	min := values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
	}
	std := 0.0
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return &Summary{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Std:   std,
		First: values[0],
		Last:  values[len(values)-1],
		Min:   min,
	}, nil
}

// MovingAverage smooths a loss trace with a trailing window; handy when the
// raw per-interval losses are noisy. Window is clamped to [1, len(values)].
func MovingAverage(values []float64, window int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}
