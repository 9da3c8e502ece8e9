package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func redImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	return img
}

func TestTensorLayout(t *testing.T) {
	data := Tensor(redImage(20, 10), TensorSpec{Size: 4})

	assert.Len(t, data, 3*4*4)

	plane := 16
	for i := 0; i < plane; i++ {
		assert.InDelta(t, 1.0, data[i], 1e-3, "red[%d]", i)
		assert.InDelta(t, 0.0, data[plane+i], 1e-3, "green[%d]", i)
		assert.InDelta(t, 0.0, data[2*plane+i], 1e-3, "blue[%d]", i)
	}
}

func TestTensorNormalize(t *testing.T) {
	spec := TensorSpec{
		Size: 2,
		Mean: []float32{0.5, 0.5, 0.5},
		Std:  []float32{0.5, 0.5, 0.5},
	}

	data := Tensor(redImage(2, 2), spec)

	assert.InDelta(t, 1.0, data[0], 1e-3)
	assert.InDelta(t, -1.0, data[4], 1e-3)
	assert.InDelta(t, -1.0, data[8], 1e-3)
}

func TestTensorIgnoresPartialNormalization(t *testing.T) {
	data := Tensor(redImage(2, 2), TensorSpec{Size: 2, Mean: []float32{0.5}})

	assert.InDelta(t, 1.0, data[0], 1e-3)
}
