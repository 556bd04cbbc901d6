package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7 % 256), G: uint8(y * 13 % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessImageOutputSize(t *testing.T) {
	for _, dim := range []struct{ w, h int }{
		{10, 10},
		{96, 96},
		{200, 120},
		{1024, 768},
	} {
		tensor, err := PreprocessImage(pngBytes(t, dim.w, dim.h))
		require.NoError(t, err)
		assert.Len(t, tensor, ClassifierInputSize*ClassifierInputSize)
	}
}

func TestPreprocessImageNormalizedRange(t *testing.T) {
	tensor, err := PreprocessImage(pngBytes(t, 64, 64))
	require.NoError(t, err)

	for _, v := range tensor {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestPreprocessImageFlatInput(t *testing.T) {
	// a uniform image has no intensity span; everything maps to 0
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tensor, err := PreprocessImage(buf.Bytes())
	require.NoError(t, err)
	for _, v := range tensor {
		assert.Zero(t, v)
	}
}

func TestPreprocessImageRejectsGarbage(t *testing.T) {
	_, err := PreprocessImage([]byte("definitely not an image"))
	require.Error(t, err)

	_, err = PreprocessImage(nil)
	require.Error(t, err)
}
