//go:build !onnx
// +build !onnx

package model

import (
	"context"
	"fmt"
)

// onnxGenerator is a stub used when built without the "onnx" build tag.
type onnxGenerator struct{}

func newONNXGenerator(modelPath string) Generator { return &onnxGenerator{} }

func (g *onnxGenerator) Generate(ctx context.Context, inputIDs []int64, maxNew int, eos int64) ([]int64, error) {
	return nil, fmt.Errorf("%w: onnx generator not available: build with -tags onnx and provide a model", ErrGeneration)
}
