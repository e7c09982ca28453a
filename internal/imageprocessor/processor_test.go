package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, solid(w, h), nil))
	return buf.Bytes()
}

func TestInspect_AcceptedFormats(t *testing.T) {
	p := NewProcessor(0, 0, 0)

	cases := []struct {
		name        string
		data        []byte
		contentType string
		ext         string
	}{
		{"png", encodePNG(t, 20, 10), "image/png", ".png"},
		{"jpeg", encodeJPEG(t, 20, 10), "image/jpeg", ".jpg"},
		{"gif", encodeGIF(t, 20, 10), "image/gif", ".gif"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := p.Inspect(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.contentType, info.ContentType)
			assert.Equal(t, tc.ext, info.Extension())
			assert.Equal(t, 20, info.Width)
			assert.Equal(t, 10, info.Height)
			assert.Equal(t, int64(len(tc.data)), info.Size)
		})
	}
}

func TestInspect_Rejects(t *testing.T) {
	p := NewProcessor(85, 1024, 100)

	_, err := p.Inspect(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = p.Inspect([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = p.Inspect(make([]byte, 1025))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestInspect_DefaultLimitIsThreeMiB(t *testing.T) {
	p := NewProcessor(0, 0, 0)
	assert.Equal(t, int64(3<<20), p.MaxSize())
}

func TestThumbnail(t *testing.T) {
	p := NewProcessor(80, 0, 50)

	t.Run("png уменьшается с сохранением пропорций", func(t *testing.T) {
		thumb, contentType, err := p.Thumbnail(encodePNG(t, 200, 100))
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 50, cfg.Width)
		assert.Equal(t, 25, cfg.Height)
	})

	t.Run("gif кодируется в jpeg", func(t *testing.T) {
		_, contentType, err := p.Thumbnail(encodeGIF(t, 30, 30))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", contentType)
	})

	t.Run("маленькое изображение не растягивается", func(t *testing.T) {
		thumb, _, err := p.Thumbnail(encodeJPEG(t, 10, 20))
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Width)
		assert.Equal(t, 20, cfg.Height)
	})
}
