package classifier

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Disabled(t *testing.T) {
	loadErr := errors.New("open models/efficientnet_b0_bat.onnx: no such file")
	svc := NewService(nil, loadErr)

	assert.False(t, svc.Ready())
	assert.Equal(t, loadErr, svc.Err())

	_, err := svc.ClassifyImage(context.Background(), []byte("whatever"), PolicyCollapse)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorContains(t, err, "no such file")
	assert.NoError(t, svc.Close())
}

func TestService_NilStateWithoutError(t *testing.T) {
	svc := NewService(nil, nil)
	assert.False(t, svc.Ready())
	_, err := svc.State()
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestService_ClassifyImage(t *testing.T) {
	m := &fakeModel{logits: logitsFor(0.8, 3)}
	state, err := Initialize(context.Background(), m, batLabels, Options{})
	require.NoError(t, err)
	svc := NewService(state, nil)
	require.True(t, svc.Ready())

	raw := encodePNG(t, solidImage(30, 30, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ClassifyImage(context.Background(), raw, PolicyCollapse)
			assert.NoError(t, err)
			assert.Equal(t, "Pipistrellus pipistrellus", res.Label)
			assert.Equal(t, 80.0, res.ConfidencePercent)
		}()
	}
	wg.Wait()

	_, err = svc.ClassifyImage(context.Background(), []byte("garbage"), PolicyCollapse)
	assert.ErrorIs(t, err, ErrDecode)

	require.NoError(t, svc.Close())
	assert.True(t, m.closed)
}
