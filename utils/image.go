package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ClassifierInputSize is the edge length the inference model was trained on.
const ClassifierInputSize = 96

// PreprocessImage converts arbitrary uploaded image bytes into the flat
// greyscale tensor the classifier expects: 96x96 pixels, row-major, each
// intensity stretched to [0,1].
func PreprocessImage(data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	grey := image.NewGray(image.Rect(0, 0, ClassifierInputSize, ClassifierInputSize))
	draw.BiLinear.Scale(grey, grey.Bounds(), img, img.Bounds(), draw.Src, nil)

	lo, hi := grey.Pix[0], grey.Pix[0]
	for _, v := range grey.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := float32(int(hi) - int(lo))
	tensor := make([]float32, ClassifierInputSize*ClassifierInputSize)
	for i, v := range grey.Pix {
		if span > 0 {
			tensor[i] = float32(int(v)-int(lo)) / span
		}
	}
	return tensor, nil
}
