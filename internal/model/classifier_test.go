package model

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out   []float32
	err   error
	input []float32
}

func (f *fakeRunner) Run(input []float32) ([]float32, error) {
	f.input = input
	return f.out, f.err
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testMeta(classes []string) Metadata {
	return Metadata{
		InputShape:  []int64{1, 4, 4, 3},
		OutputShape: []int64{1, int64(len(classes))},
		Classes:     classes,
	}.withDefaults(Metadata{})
}

func TestClassify(t *testing.T) {
	tcs := map[string]struct {
		out  []float32
		want string
	}{
		"healthy": {out: []float32{0.8, 0.1, 0.1}, want: "Healthy"},
		"powdery": {out: []float32{0.1, 0.7, 0.2}, want: "Powdery"},
		"rust":    {out: []float32{0.05, 0.05, 0.9}, want: "Rust"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{out: tc.out}
			c := NewClassifier("disease", runner, testMeta(DiseaseClasses), nil)

			got, err := c.Classify(context.Background(), bytes.NewReader(pngBytes(t, 8, 8, color.White)))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Class)
			assert.Contains(t, DiseaseClasses, got.Class)
			assert.Len(t, got.Predictions, 3)
			assert.Equal(t, "disease", got.Model)
			assert.Len(t, runner.input, 4*4*3)
		})
	}
}

func TestClassifySpeciesLabelFromList(t *testing.T) {
	out := make([]float32, len(SpeciesClasses))
	out[15] = 0.99
	c := NewClassifier("species", &fakeRunner{out: out}, testMeta(SpeciesClasses), nil)

	got, err := c.Classify(context.Background(), bytes.NewReader(pngBytes(t, 6, 6, color.Black)))
	require.NoError(t, err)
	assert.Equal(t, "mango", got.Class)
	assert.InDelta(t, 0.99, got.Confidence, 1e-6)
}

func TestClassifyInvalidImage(t *testing.T) {
	c := NewClassifier("disease", &fakeRunner{out: []float32{1, 0, 0}}, testMeta(DiseaseClasses), nil)

	_, err := c.Classify(context.Background(), strings.NewReader("GIF89a not really"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestClassifyShapeMismatch(t *testing.T) {
	c := NewClassifier("disease", &fakeRunner{out: []float32{1, 0}}, testMeta(DiseaseClasses), nil)

	_, err := c.Classify(context.Background(), bytes.NewReader(pngBytes(t, 4, 4, color.White)))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestClassifyRunnerError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClassifier("disease", &fakeRunner{err: boom}, testMeta(DiseaseClasses), nil)

	_, err := c.Classify(context.Background(), bytes.NewReader(pngBytes(t, 4, 4, color.White)))
	assert.ErrorIs(t, err, boom)
}

func TestClassifyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClassifier("disease", &fakeRunner{out: []float32{1, 0, 0}}, testMeta(DiseaseClasses), nil)

	_, err := c.Classify(ctx, bytes.NewReader(pngBytes(t, 4, 4, color.White)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, 0, ArgMax([]float32{0.5, 0.5}))
	assert.Equal(t, 2, ArgMax([]float32{-1, 0, 3, 2}))
}

func TestClassifyTensor(t *testing.T) {
	c := NewClassifier("disease", &fakeRunner{out: []float32{0.1, 0.2, 0.7}}, testMeta(DiseaseClasses), nil)

	got, err := c.ClassifyTensor(context.Background(), make([]float32, 4*4*3))
	require.NoError(t, err)
	assert.Equal(t, "Rust", got.Class)

	_, err = c.ClassifyTensor(context.Background(), make([]float32, 5))
	assert.ErrorIs(t, err, ErrInputSize)
}
