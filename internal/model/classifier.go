package model

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
)

// Classifier maps an image to one label of a fixed class list.
type Classifier struct {
	name   string
	runner Runner
	meta   Metadata
	logger *slog.Logger
}

func NewClassifier(name string, runner Runner, meta Metadata, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		name:   name,
		runner: runner,
		meta:   meta,
		logger: logger.With("model", name),
	}
}

func (c *Classifier) Name() string { return c.name }

func (c *Classifier) Classes() []string { return c.meta.Classes }

// Classify decodes a JPEG or PNG stream and classifies it.
func (c *Classifier) Classify(ctx context.Context, r io.Reader) (*Prediction, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	c.logger.Debug("Decoded image", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return c.ClassifyImage(ctx, img)
}

func (c *Classifier) ClassifyImage(ctx context.Context, img image.Image) (*Prediction, error) {
	return c.ClassifyTensor(ctx, Preprocess(img, c.meta))
}

// ClassifyTensor runs an already preprocessed input.
func (c *Classifier) ClassifyTensor(ctx context.Context, inputData []float32) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if expected := c.meta.InputSize(); expected > 0 && len(inputData) != expected {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInputSize, expected, len(inputData))
	}

	outputData, err := c.runner.Run(inputData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	if len(outputData) == 0 || len(outputData) != len(c.meta.Classes) {
		return nil, fmt.Errorf("%w: %s returned %d scores for %d classes",
			ErrShapeMismatch, c.name, len(outputData), len(c.meta.Classes))
	}

	predictions := make(map[string]float32, len(outputData))
	for i, val := range outputData {
		predictions[c.meta.Classes[i]] = val
	}

	maxIdx := ArgMax(outputData)
	return &Prediction{
		Model:       c.name,
		Class:       c.meta.Classes[maxIdx],
		Confidence:  outputData[maxIdx],
		Predictions: predictions,
	}, nil
}

// ArgMax returns the index of the largest value, the first one on ties.
// It returns -1 for an empty slice.
func ArgMax(values []float32) int {
	if len(values) == 0 {
		return -1
	}
	maxIdx := 0
	for i, val := range values {
		if val > values[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}
