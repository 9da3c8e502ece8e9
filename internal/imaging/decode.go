// Package imaging turns uploaded bytes into opaque RGB images and model
// input tensors.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrInvalidImage = errors.New("invalid image")

// Image is a decoded upload. Every pixel of RGBA has alpha 0xff.
type Image struct {
	*image.RGBA
	Format string
	MIME   string
}

type Options struct {
	// MaxPixels bounds width*height. Zero means unlimited.
	MaxPixels int
}

type Decoder struct {
	opts Options
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode parses data as any registered image format and converts it to RGB.
// On failure the returned error wraps ErrInvalidImage and the image is nil.
func (d *Decoder) Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mtype := mimetype.Detect(data).String()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s header: %w", ErrInvalidImage, mtype, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels (%dx%d)", ErrInvalidImage, format, cfg.Width, cfg.Height)
	}

	if d.opts.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(d.opts.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, d.opts.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrInvalidImage, format, err)
	}

	return &Image{
		RGBA:   toRGB(img),
		Format: format,
		MIME:   mtype,
	}, nil
}

// Decode uses a Decoder without a pixel limit.
func Decode(data []byte) (*Image, error) {
	return NewDecoder(Options{}).Decode(data)
}

// toRGB drops the alpha channel without compositing, keeping the stored
// color of translucent pixels.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}

	return dst
}
