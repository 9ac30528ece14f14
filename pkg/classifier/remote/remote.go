// Package remote calls a model server speaking the KServe v2 inference
// protocol (Triton, TorchServe, KServe), for deployments where the frozen
// PyTorch model stays out of process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bat-monitor-be/pkg/classifier"
)

type Model struct {
	BaseURL    string
	ModelName  string
	InputName  string
	OutputName string
	Client     *http.Client
}

var _ classifier.Model = (*Model)(nil)

func NewModel(baseURL, modelName, inputName, outputName string) *Model {
	return &Model{
		BaseURL:    baseURL,
		ModelName:  modelName,
		InputName:  inputName,
		OutputName: outputName,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type inferTensor struct {
	Name     string    `json:"name"`
	Shape    []int64   `json:"shape"`
	Datatype string    `json:"datatype"`
	Data     []float32 `json:"data"`
}

type inferRequest struct {
	Inputs  []inferTensor      `json:"inputs"`
	Outputs []inferOutputQuery `json:"outputs,omitempty"`
}

type inferOutputQuery struct {
	Name string `json:"name"`
}

type inferResponse struct {
	ModelName string        `json:"model_name"`
	Outputs   []inferTensor `json:"outputs"`
	Error     string        `json:"error,omitempty"`
}

// Ready checks the model's readiness endpoint.
func (m *Model) Ready(ctx context.Context) error {
	url := fmt.Sprintf("%s/v2/models/%s/ready", m.BaseURL, m.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("inference server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model %s not ready: status %d", m.ModelName, resp.StatusCode)
	}
	return nil
}

func (m *Model) Forward(ctx context.Context, input classifier.Tensor) ([]float32, error) {
	payload := inferRequest{
		Inputs: []inferTensor{{
			Name:     m.InputName,
			Shape:    input.Shape,
			Datatype: "FP32",
			Data:     input.Data,
		}},
		Outputs: []inferOutputQuery{{Name: m.OutputName}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/models/%s/infer", m.BaseURL, m.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out inferResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference server error (status %d): %s", resp.StatusCode, out.Error)
	}

	for _, o := range out.Outputs {
		if o.Name == m.OutputName {
			return o.Data, nil
		}
	}
	if len(out.Outputs) == 1 {
		return out.Outputs[0].Data, nil
	}
	return nil, fmt.Errorf("response has no output named %q", m.OutputName)
}

func (m *Model) Close() error {
	m.Client.CloseIdleConnections()
	return nil
}
