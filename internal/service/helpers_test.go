package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"sync"
	"testing"

	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/events"

	"github.com/stretchr/testify/require"
)

var testLabels = classifier.Labels{"Pipistrellus pipistrellus", "Myotis daubentonii", "Nyctalus noctula"}

type fixedModel struct {
	logits []float32
}

func (m fixedModel) Forward(ctx context.Context, input classifier.Tensor) ([]float32, error) {
	return m.logits, nil
}

func (m fixedModel) Close() error { return nil }

// logitsWithTop puts probability p on class 0, the rest spread evenly.
func logitsWithTop(p float64) []float32 {
	n := len(testLabels)
	rest := (1 - p) / float64(n-1)
	out := make([]float32, n)
	out[0] = float32(math.Log(p))
	for i := 1; i < n; i++ {
		out[i] = float32(math.Log(rest))
	}
	return out
}

func readyClassifier(t *testing.T, p float64) *classifier.Service {
	t.Helper()
	st, err := classifier.Initialize(context.Background(), fixedModel{logits: logitsWithTop(p)}, testLabels, classifier.Options{
		Logger: logger.NewNopLogger(),
	})
	require.NoError(t, err)
	return classifier.NewService(st, nil)
}

func spectrogramJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 8), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newSpecies(t *testing.T, svc *classifier.Service, pub events.Publisher) ISpeciesService {
	t.Helper()
	return NewSpeciesService(svc, pub, metrics.NewCollector(), logger.NewNopLogger())
}
