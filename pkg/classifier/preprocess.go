package classifier

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const InputSize = 224

// ImageNet statistics. The model was trained on inputs normalized with
// exactly these values.
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Preprocessor turns raw image bytes into the model's NCHW input: stretch
// resize, scale to [0,1], per-channel normalize.
type Preprocessor struct {
	Width  int
	Height int
	Mean   [3]float32
	Std    [3]float32
}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		Width:  InputSize,
		Height: InputSize,
		Mean:   ImageNetMean,
		Std:    ImageNetStd,
	}
}

func (p *Preprocessor) Shape() []int64 {
	return []int64{1, 3, int64(p.Height), int64(p.Width)}
}

func (p *Preprocessor) Prepare(raw []byte) (Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return p.FromImage(img), nil
}

func (p *Preprocessor) FromImage(img image.Image) Tensor {
	b := img.Bounds()
	rgb := dropAlpha(img)

	resized := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.BiLinear.Scale(resized, resized.Bounds(), rgb, b, draw.Src, nil)

	plane := p.Width * p.Height
	data := make([]float32, 3*plane)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			off := resized.PixOffset(x, y)
			idx := y*p.Width + x
			for c := 0; c < 3; c++ {
				v := float32(resized.Pix[off+c]) / 255
				data[c*plane+idx] = (v - p.Mean[c]) / p.Std[c]
			}
		}
	}

	return Tensor{Shape: p.Shape(), Data: data}
}

// dropAlpha keeps the straight (non-premultiplied) color of every pixel and
// makes it opaque. Transparent pixels keep their color instead of turning
// black.
func dropAlpha(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 0xff
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
