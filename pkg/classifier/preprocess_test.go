package classifier

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func expected(channel int, v uint8) float32 {
	return (float32(v)/255 - ImageNetMean[channel]) / ImageNetStd[channel]
}

// Tolerance of one 8-bit step after normalization.
const oneStep = 1.0 / 255 / 0.224 * 1.1

func TestPrepare_ShapeAndNormalization(t *testing.T) {
	p := NewPreprocessor()
	raw := encodePNG(t, solidImage(640, 120, color.NRGBA{R: 255, G: 0, B: 128, A: 255}))

	tensor, err := p.Prepare(raw)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 224, 224}, tensor.Shape)
	require.Len(t, tensor.Data, 3*224*224)

	plane := 224 * 224
	for _, idx := range []int{0, 1000, plane - 1} {
		assert.InDelta(t, expected(0, 255), tensor.Data[idx], oneStep)
		assert.InDelta(t, expected(1, 0), tensor.Data[plane+idx], oneStep)
		assert.InDelta(t, expected(2, 128), tensor.Data[2*plane+idx], oneStep)
	}
}

func TestPrepare_Constants(t *testing.T) {
	assert.Equal(t, [3]float32{0.485, 0.456, 0.406}, ImageNetMean)
	assert.Equal(t, [3]float32{0.229, 0.224, 0.225}, ImageNetStd)
	assert.Equal(t, 224, InputSize)
}

func TestPrepare_DropsAlpha(t *testing.T) {
	p := NewPreprocessor()
	img := solidImage(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	tensor := p.FromImage(img)

	plane := 224 * 224
	assert.InDelta(t, expected(0, 200), tensor.Data[0], oneStep)
	assert.InDelta(t, expected(1, 100), tensor.Data[plane], oneStep)
	assert.InDelta(t, expected(2, 50), tensor.Data[2*plane], oneStep)
}

func TestPrepare_StretchResize(t *testing.T) {
	// Left half red, right half blue, very wide: after a stretch the split
	// stays in the middle column rather than being letterboxed.
	img := image.NewNRGBA(image.Rect(0, 0, 1000, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 1000; x++ {
			if x < 500 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}

	tensor := NewPreprocessor().FromImage(img)

	plane := 224 * 224
	row := 100 * 224
	assert.InDelta(t, expected(0, 255), tensor.Data[row+5], oneStep)
	assert.InDelta(t, expected(2, 255), tensor.Data[2*plane+row+218], oneStep)
}

func TestPrepare_JPEGDeterministic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(50, 30, color.NRGBA{R: 10, G: 200, B: 90, A: 255}), nil))

	p := NewPreprocessor()
	a, err := p.Prepare(buf.Bytes())
	require.NoError(t, err)
	b, err := p.Prepare(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestPrepare_DecodeError(t *testing.T) {
	p := NewPreprocessor()

	for _, raw := range [][]byte{nil, []byte("definitely not an image"), {0xff, 0xd8, 0xff}} {
		_, err := p.Prepare(raw)
		assert.ErrorIs(t, err, ErrDecode)
	}
}
