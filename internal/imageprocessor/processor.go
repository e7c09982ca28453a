package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

var (
	ErrEmptyImage        = errors.New("image file is empty")
	ErrImageTooLarge     = errors.New("image file is too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// contentTypes - допустимые форматы и их MIME-типы.
var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Info описывает проверенное изображение.
type Info struct {
	Format      string
	ContentType string
	Width       int
	Height      int
	Size        int64
}

// Extension возвращает расширение файла с точкой.
func (i Info) Extension() string {
	if i.Format == "jpeg" {
		return ".jpg"
	}
	return "." + i.Format
}

// Processor handles image processing operations
type Processor struct {
	quality   int   // JPEG quality (1-100)
	maxSize   int64 // bytes
	thumbSide int   // px
}

// NewProcessor creates a new image processor
func NewProcessor(quality int, maxSize int64, thumbSide int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxSize <= 0 {
		maxSize = 3 << 20
	}
	if thumbSide <= 0 {
		thumbSide = 300
	}
	return &Processor{
		quality:   quality,
		maxSize:   maxSize,
		thumbSide: thumbSide,
	}
}

// MaxSize - предельный размер файла в байтах.
func (p *Processor) MaxSize() int64 { return p.maxSize }

// Inspect проверяет размер и формат. Формат определяется по содержимому,
// а не по расширению или заголовку Content-Type.
func (p *Processor) Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmptyImage
	}
	if int64(len(data)) > p.maxSize {
		return Info{}, fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(data), p.maxSize)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return Info{
		Format:      format,
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        int64(len(data)),
	}, nil
}

// Thumbnail уменьшает изображение так, чтобы большая сторона не превышала
// thumbSide. PNG остается PNG, остальное кодируется в JPEG.
func (p *Processor) Thumbnail(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, p.thumbSide, p.thumbSide)

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return buf.Bytes(), contentTypes["png"], nil
	}
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), contentTypes["jpeg"], nil
}

// resize resizes an image maintaining aspect ratio. Images that already fit
// are returned as is.
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}
