package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReadMetadata reads a model metadata file and fills every unset field
// from defaults. Image size is inferred from the input shape when absent.
func ReadMetadata(path string, defaults Metadata) (Metadata, error) {
	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return metadata.withDefaults(defaults), nil
}

func (m Metadata) withDefaults(d Metadata) Metadata {
	if len(m.InputShape) == 0 {
		m.InputShape = d.InputShape
	}
	if len(m.OutputShape) == 0 {
		m.OutputShape = d.OutputShape
	}
	if len(m.Classes) == 0 {
		m.Classes = d.Classes
	}
	if m.Layout == "" {
		m.Layout = d.Layout
	}
	m.Layout = strings.ToUpper(m.Layout)
	if m.Layout == "" {
		m.Layout = LayoutNHWC
	}
	if m.Scale == 0 {
		m.Scale = d.Scale
	}
	if m.Scale == 0 {
		m.Scale = 255
	}
	if m.InputName == "" {
		m.InputName = d.InputName
	}
	if m.OutputName == "" {
		m.OutputName = d.OutputName
	}
	if m.ImageSize == 0 {
		m.ImageSize = d.ImageSize
	}
	if m.ImageSize == 0 && len(m.InputShape) == 4 {
		if m.Layout == LayoutNCHW {
			m.ImageSize = int(m.InputShape[2])
		} else {
			m.ImageSize = int(m.InputShape[1])
		}
	}
	return m
}

func DiseaseMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, 225, 225, 3},
		OutputShape: []int64{1, int64(len(DiseaseClasses))},
		Classes:     DiseaseClasses,
		Layout:      LayoutNHWC,
		InputName:   "input",
		OutputName:  "output",
	}
}

func SpeciesMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, 224, 224, 3},
		OutputShape: []int64{1, int64(len(SpeciesClasses))},
		Classes:     SpeciesClasses,
		Layout:      LayoutNHWC,
		InputName:   "input",
		OutputName:  "output",
	}
}

// YieldMetadata matches the tensor names skl2onnx gives a converted regressor.
func YieldMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, FeatureCount},
		OutputShape: []int64{1, 1},
		InputName:   "float_input",
		OutputName:  "variable",
	}
}
