package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/arith-finetune/aft/dataset"
)

// ErrBadTrainConfig indicates malformed training parameters.
var ErrBadTrainConfig = errors.New("invalid training configuration")

// TrainConfig is the configuration handed to the external trainer.
type TrainConfig struct {
	Epochs       int     `json:"epochs" mapstructure:"epochs"`
	BatchSize    int     `json:"batchSize" mapstructure:"batchSize"`
	LearningRate float64 `json:"learningRate" mapstructure:"learningRate"`
	LogInterval  int     `json:"logInterval" mapstructure:"logInterval"`
}

// Validate surfaces malformed parameters before a run starts.
func (c TrainConfig) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs %d", ErrBadTrainConfig, c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size %d", ErrBadTrainConfig, c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate %v", ErrBadTrainConfig, c.LearningRate)
	}
	if c.LogInterval <= 0 {
		return fmt.Errorf("%w: log interval %d", ErrBadTrainConfig, c.LogInterval)
	}
	return nil
}

// Trainer is the opaque training collaborator. It consumes the train and
// validation sets, drives logging events into sink at its logging interval,
// and leaves a trained model behind whatever capability the caller evaluates
// with. The pipeline treats it as a blocking call; cancellation is the
// caller's concern via ctx.
type Trainer interface {
	Train(ctx context.Context, train, val *dataset.TokenizedDataset, cfg TrainConfig, sink func(LogEntry)) error
}
