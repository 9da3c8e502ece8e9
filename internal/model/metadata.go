package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

const (
	defaultInputName  = "input"
	defaultOutputName = "output"
)

var validate = validator.New()

func LoadMetadata(path string) (Metadata, error) {
	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	return ParseMetadata(metaFile)
}

func ParseMetadata(data []byte) (Metadata, error) {
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}

	if metadata.InputName == "" {
		metadata.InputName = defaultInputName
	}
	if metadata.OutputName == "" {
		metadata.OutputName = defaultOutputName
	}

	return metadata, nil
}

func (m *Metadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	// The output must hold at least one score per class.
	if m.outputSize() < int64(len(m.Classes)) {
		return fmt.Errorf("invalid metadata: output shape %v is smaller than %d classes",
			m.OutputShape, len(m.Classes))
	}

	// 1x3xSxS: a single RGB image at the declared square size.
	if m.InputShape[0] != 1 || m.InputShape[1] != 3 || m.InputShape[2] != int64(m.ImageSize) || m.InputShape[3] != int64(m.ImageSize) {
		return fmt.Errorf("invalid metadata: input shape %v does not match 1x3x%dx%d",
			m.InputShape, m.ImageSize, m.ImageSize)
	}

	return nil
}

func (m *Metadata) outputSize() int64 {
	size := int64(1)
	for _, dim := range m.OutputShape {
		size *= dim
	}

	return size
}
