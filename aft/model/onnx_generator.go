//go:build onnx
// +build onnx

package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNX-backed greedy decoder under the onnx build tag. Initializes ORT lazily
// and opens a dynamic session against a causal-LM export whose first float
// output is logits of shape [batch, seq, vocab].
type onnxGenerator struct {
	modelPath   string
	mu          sync.Mutex
	session     *ort.DynamicAdvancedSession
	inputNames  []string
	outputNames []string
}

func newONNXGenerator(modelPath string) Generator {
	return &onnxGenerator{modelPath: modelPath}
}

func (g *onnxGenerator) ensureSession() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != nil {
		return nil
	}
	if g.modelPath == "" {
		return fmt.Errorf("onnx model path is required")
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}
	ins, outs, err := ort.GetInputOutputInfo(g.modelPath)
	if err != nil {
		return fmt.Errorf("get IO info: %w", err)
	}
	var idsName, maskName string
	for _, ii := range ins {
		n := strings.ToLower(ii.Name)
		if strings.Contains(n, "input_ids") || n == "ids" {
			idsName = ii.Name
		}
		if strings.Contains(n, "attention_mask") || n == "mask" {
			maskName = ii.Name
		}
	}
	var inputNames []string
	if idsName != "" {
		inputNames = append(inputNames, idsName)
	}
	if maskName != "" {
		inputNames = append(inputNames, maskName)
	}
	// Fallback: take first two int tensor inputs
	if len(inputNames) == 0 {
		for _, ii := range ins {
			if ii.DataType == ort.TensorElementDataTypeInt64 {
				inputNames = append(inputNames, ii.Name)
				if len(inputNames) >= 2 {
					break
				}
			}
		}
	}
	if len(inputNames) == 0 {
		return fmt.Errorf("could not determine ONNX input names")
	}
	var outputNames []string
	for _, oi := range outs {
		if oi.DataType == ort.TensorElementDataTypeFloat {
			outputNames = append(outputNames, oi.Name)
			break
		}
	}
	if len(outputNames) == 0 {
		return fmt.Errorf("could not determine ONNX output name")
	}
	s, err := ort.NewDynamicAdvancedSession(g.modelPath, inputNames, outputNames, nil)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}
	g.session = s
	g.inputNames = inputNames
	g.outputNames = outputNames
	return nil
}

func (g *onnxGenerator) Generate(ctx context.Context, inputIDs []int64, maxNew int, eos int64) ([]int64, error) {
	if err := g.ensureSession(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	tokens := append([]int64(nil), inputIDs...)
	for step := 0; step < maxNew; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := g.nextToken(tokens)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrGeneration, step, err)
		}
		tokens = append(tokens, next)
		if next == eos {
			break
		}
	}
	return tokens, nil
}

// nextToken runs one forward pass and picks the argmax of the final position.
func (g *onnxGenerator) nextToken(tokens []int64) (int64, error) {
	seq := len(tokens)
	shape := ort.NewShape(1, int64(seq))
	idsTensor, err := ort.NewTensor(shape, append([]int64(nil), tokens...))
	if err != nil {
		return 0, fmt.Errorf("ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	mask := make([]int64, seq)
	for i := range mask {
		mask[i] = 1
	}
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return 0, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inVals := make([]ort.Value, len(g.inputNames))
	for i, name := range g.inputNames {
		ln := strings.ToLower(name)
		if strings.Contains(ln, "attention_mask") || ln == "mask" {
			inVals[i] = maskTensor
		} else {
			inVals[i] = idsTensor
		}
	}
	outs := make([]ort.Value, len(g.outputNames))
	if err := g.session.Run(inVals, outs); err != nil {
		return 0, fmt.Errorf("onnx run: %w", err)
	}
	defer func() {
		for _, v := range outs {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	t, ok := outs[0].(*ort.Tensor[float32])
	if !ok {
		return 0, fmt.Errorf("unexpected output type")
	}
	data := t.GetData()
	outShape := t.GetShape()
	if len(outShape) != 3 {
		return 0, fmt.Errorf("unexpected logits rank %d", len(outShape))
	}
	vocab := int(outShape[2])
	last := data[(seq-1)*vocab : seq*vocab]

	best := 0
	for i, v := range last {
		if v > last[best] {
			best = i
		}
	}
	return int64(best), nil
}
