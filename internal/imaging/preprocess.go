package imaging

import (
	"image"

	"github.com/nfnt/resize"
)

// TensorSpec describes the square input a classification model expects.
// Mean and Std are per-channel (R, G, B); leave them empty to feed raw
// [0,1] values.
type TensorSpec struct {
	Size int
	Mean []float32
	Std  []float32
}

// Tensor resizes img to spec.Size x spec.Size and returns it in CHW order.
func Tensor(img image.Image, spec TensorSpec) []float32 {
	targetSize := uint(spec.Size)

	resized := resize.Resize(targetSize, targetSize, img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height

	channels := 3
	inputData := make([]float32, channels*plane)

	normalize := len(spec.Mean) == channels && len(spec.Std) == channels

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			pixel := [3]float32{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(b) / 65535.0,
			}

			pixelIndex := y*width + x
			for c := 0; c < channels; c++ {
				v := pixel[c]
				if normalize && spec.Std[c] != 0 {
					v = (v - spec.Mean[c]) / spec.Std[c]
				}
				inputData[c*plane+pixelIndex] = v
			}
		}
	}

	return inputData
}
