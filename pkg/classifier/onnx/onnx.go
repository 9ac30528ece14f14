// Package onnx runs the exported classifier graph in-process with ONNX
// Runtime.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bat-monitor-be/pkg/classifier"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment loads the shared library once per process; ONNX Runtime
// keeps a single global environment.
func initEnvironment(libPath string) error {
	envOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

type Config struct {
	ModelPath  string
	LibPath    string
	InputName  string
	OutputName string
	NumClasses int
}

// Model wraps a dynamic session: tensors are allocated per call, so
// concurrent Forward calls do not share buffers.
type Model struct {
	session    *ort.DynamicAdvancedSession
	numClasses int
}

var _ classifier.Model = (*Model)(nil)

func Open(cfg Config) (*Model, error) {
	if cfg.NumClasses <= 0 {
		return nil, errors.New("onnx: class count must be positive")
	}
	if err := initEnvironment(cfg.LibPath); err != nil {
		return nil, fmt.Errorf("onnx: initialize runtime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: load %s: %w", cfg.ModelPath, err)
	}

	return &Model{session: session, numClasses: cfg.NumClasses}, nil
}

func (m *Model) Forward(ctx context.Context, input classifier.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return nil, fmt.Errorf("onnx: input tensor: %w", err)
	}
	defer in.Destroy()

	batch := int64(1)
	if len(input.Shape) > 0 {
		batch = input.Shape[0]
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(batch, int64(m.numClasses)))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: run: %w", err)
	}

	// First batch row; the copy outlives the destroyed tensor.
	logits := make([]float32, m.numClasses)
	copy(logits, out.GetData()[:m.numClasses])
	return logits, nil
}

func (m *Model) Close() error {
	return m.session.Destroy()
}
