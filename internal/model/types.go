package model

import (
	"context"
	"image"
	"math"
)

// Metadata is the JSON sidecar shipped next to an exported model.
type Metadata struct {
	InputShape  []int64   `json:"input_shape" validate:"len=4,dive,gt=0"`
	OutputShape []int64   `json:"output_shape" validate:"min=1,dive,gt=0"`
	Classes     []string  `json:"classes" validate:"min=1,dive,required"`
	ImageSize   int       `json:"image_size" validate:"gt=0"`
	InputName   string    `json:"input_name"`
	OutputName  string    `json:"output_name"`
	Mean        []float32 `json:"mean" validate:"omitempty,len=3"`
	Std         []float32 `json:"std" validate:"omitempty,len=3,dive,gt=0"`
	// ApplySoftmax is set for models that emit raw logits.
	ApplySoftmax bool `json:"apply_softmax"`
}

type Prediction struct {
	Label      string
	Confidence float32
}

// Result holds one prediction per class, in the model's class order.
type Result struct {
	Predictions []Prediction
}

// Top returns the highest-confidence prediction. Entries with an empty
// label or a non-finite confidence are skipped; ok is false when nothing
// usable remains.
func (r *Result) Top() (top Prediction, ok bool) {
	if r == nil {
		return Prediction{}, false
	}

	for _, p := range r.Predictions {
		if p.Label == "" || !isFinite(p.Confidence) {
			continue
		}
		if !ok || p.Confidence > top.Confidence {
			top, ok = p, true
		}
	}

	return top, ok
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Predictor is a loaded model. Implementations must be safe for concurrent
// use by request handlers.
type Predictor interface {
	Predict(ctx context.Context, img image.Image) (*Result, error)
}

type PredictorFunc func(ctx context.Context, img image.Image) (*Result, error)

func (f PredictorFunc) Predict(ctx context.Context, img image.Image) (*Result, error) {
	return f(ctx, img)
}
