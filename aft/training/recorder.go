package training

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// LogEntry is one logging event emitted by the trainer. Loss is nil for
// events that carry no loss value (e.g., learning-rate or epoch notices).
type LogEntry struct {
	Step  int
	Epoch float64
	Loss  *float64
}

// LossRecorder is a passive observer collecting scalar loss values in
// emission order. The trainer invokes Record synchronously and sequentially,
// so no locking is needed.
type LossRecorder struct {
	values []float64
}

// NewLossRecorder creates an empty recorder.
func NewLossRecorder() *LossRecorder {
	return &LossRecorder{}
}

// Record appends the entry's loss value when present; entries without a loss
// are ignored.
func (r *LossRecorder) Record(entry LogEntry) {
	if entry.Loss == nil {
		return
	}
	r.values = append(r.values, *entry.Loss)
}

// Len returns the number of recorded losses.
func (r *LossRecorder) Len() int { return len(r.values) }

// Values returns a copy of the recorded losses in emission order.
func (r *LossRecorder) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Export writes the recorded losses to path, one value per line in emission
// order, overwriting any existing file.
func (r *LossRecorder) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create loss trace file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range r.values {
		if _, err := w.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "\n"); err != nil {
			return fmt.Errorf("failed to write loss trace: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush loss trace: %w", err)
	}
	return nil
}
