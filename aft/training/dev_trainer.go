package training

import (
	"context"
	"math"

	"github.com/ZanzyTHEbar/arith-finetune/aft/dataset"
)

// DevTrainer is a deterministic stand-in for a real fine-tuning backend. It
// walks the train set batch by batch for the configured epochs and emits a
// smoothly decaying synthetic loss at every logging interval, so the full
// pipeline (recording, export, summary, persistence) runs without any ML
// framework attached. It trains nothing.
type DevTrainer struct {
	// InitialLoss is the loss reported at step one; defaults to 4.0.
	InitialLoss float64
	// Decay controls how fast the synthetic loss shrinks; defaults to 0.05.
	Decay float64
}

// NewDevTrainer returns a trainer with the default synthetic curve.
func NewDevTrainer() *DevTrainer {
	return &DevTrainer{InitialLoss: 4.0, Decay: 0.05}
}

func (d *DevTrainer) Train(ctx context.Context, train, val *dataset.TokenizedDataset, cfg TrainConfig, sink func(LogEntry)) error {
	initial := d.InitialLoss
	if initial <= 0 {
		initial = 4.0
	}
	decay := d.Decay
	if decay <= 0 {
		decay = 0.05
	}

	batches := (train.Len() + cfg.BatchSize - 1) / cfg.BatchSize
	if batches < 1 {
		batches = 1
	}

	step := 0
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for b := 0; b < batches; b++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			step++
			if step%cfg.LogInterval == 0 {
				loss := initial * math.Exp(-decay*float64(step))
				sink(LogEntry{
					Step:  step,
					Epoch: float64(epoch) + float64(b+1)/float64(batches),
					Loss:  &loss,
				})
			}
		}
	}
	// Always emit at least one final loss so short runs still have a trace.
	if step%cfg.LogInterval != 0 || step < cfg.LogInterval {
		loss := initial * math.Exp(-decay*float64(step))
		sink(LogEntry{Step: step, Epoch: float64(cfg.Epochs), Loss: &loss})
	}
	return nil
}
