package model

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/plant-api/internal/imaging"
)

// Server runs an ONNX classification model. Input and output tensors are
// allocated once, so Predict calls are serialized.
type Server struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

type ServerOptions struct {
	ModelPath    string
	MetadataPath string
	// RuntimeLibrary is the path to the onnxruntime shared library. Empty
	// uses the library's platform default.
	RuntimeLibrary string
}

func NewServer(opts ServerOptions) (*Server, error) {
	metadata, err := LoadMetadata(opts.MetadataPath)
	if err != nil {
		return nil, err
	}

	if opts.RuntimeLibrary != "" {
		ort.SetSharedLibraryPath(opts.RuntimeLibrary)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	s := &Server{Metadata: metadata}

	s.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	s.outputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	s.session, err = ort.NewAdvancedSession(opts.ModelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{s.inputTensor}, []ort.ArbitraryTensor{s.outputTensor},
		nil)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return s, nil
}

func (s *Server) Predict(ctx context.Context, img image.Image) (*Result, error) {
	inputData := imaging.Tensor(img, imaging.TensorSpec{
		Size: s.Metadata.ImageSize,
		Mean: s.Metadata.Mean,
		Std:  s.Metadata.Std,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	copy(s.inputTensor.GetData(), inputData)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return resultFromScores(s.outputTensor.GetData(), s.Metadata.Classes, s.Metadata.ApplySoftmax), nil
}

func (s *Server) Close() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// resultFromScores pairs the first len(classes) scores with their labels.
// The scores slice is copied, never retained.
func resultFromScores(scores []float32, classes []string, applySoftmax bool) *Result {
	n := len(scores)
	if len(classes) < n {
		n = len(classes)
	}

	values := make([]float32, n)
	copy(values, scores[:n])
	if applySoftmax {
		softmax(values)
	}

	predictions := make([]Prediction, n)
	for i, val := range values {
		predictions[i] = Prediction{Label: classes[i], Confidence: val}
	}

	return &Result{Predictions: predictions}
}

func softmax(values []float32) {
	if len(values) == 0 {
		return
	}

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	var sum float64
	for i, v := range values {
		e := math.Exp(float64(v - maxVal))
		values[i] = float32(e)
		sum += e
	}

	for i := range values {
		values[i] = float32(float64(values[i]) / sum)
	}
}
