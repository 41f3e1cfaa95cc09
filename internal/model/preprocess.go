package model

import (
	"image"

	"github.com/nfnt/resize"
)

// Preprocess converts an image to the flat tensor layout described by meta.
// Channels are RGB; each 8-bit value is divided by meta.Scale.
func Preprocess(img image.Image, meta Metadata) []float32 {
	targetSize := uint(meta.ImageSize)
	resized := resize.Resize(targetSize, targetSize, img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height

	scale := meta.Scale
	if scale == 0 {
		scale = 255
	}

	inputData := make([]float32, 3*plane)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			rv := float32(r>>8) / scale
			gv := float32(g>>8) / scale
			bv := float32(b>>8) / scale

			pixelIndex := y*width + x
			if meta.Layout == LayoutNCHW {
				inputData[pixelIndex] = rv
				inputData[plane+pixelIndex] = gv
				inputData[2*plane+pixelIndex] = bv
				continue
			}
			inputData[3*pixelIndex] = rv
			inputData[3*pixelIndex+1] = gv
			inputData[3*pixelIndex+2] = bv
		}
	}

	return inputData
}
