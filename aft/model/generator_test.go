package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoGenerator(t *testing.T) {
	g := NewEchoGenerator()

	out, err := g.Generate(context.Background(), []int64{5, 6, 7}, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7, 2}, out)
}

func TestEchoGeneratorZeroBudget(t *testing.T) {
	g := NewEchoGenerator()

	out, err := g.Generate(context.Background(), []int64{5, 6}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, out)
}

func TestEchoGeneratorCancelled(t *testing.T) {
	g := NewEchoGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, []int64{1}, 4, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGeneratorSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantEcho bool
	}{
		{"Default", "", true},
		{"Dev", "dev", true},
		{"Echo", "echo", true},
		{"Unknown", "beam", true},
		{"ONNX", "onnx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.provider, "")
			_, isEcho := g.(*EchoGenerator)
			assert.Equal(t, tt.wantEcho, isEcho)
		})
	}
}

func TestONNXStubErrors(t *testing.T) {
	// Without the onnx build tag the provider reports a descriptive failure.
	g := NewGenerator("onnx", "model.onnx")
	_, err := g.Generate(context.Background(), []int64{1, 2}, 4, 2)
	assert.ErrorIs(t, err, ErrGeneration)
}
