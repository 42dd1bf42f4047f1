// Package media downscales uploaded images before they reach object storage
// so oversized camera originals do not end up served as avatars.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1024
	jpegQuality         = 85
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// ImageProcessor decodes, downscales with Catmull-Rom resampling, and
// re-encodes. WebP and GIF inputs are re-encoded as JPEG when resized since
// the standard encoders do not cover them.
type ImageProcessor struct {
	maxDimension int
}

func NewImageProcessor(maxDimension int) *ImageProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImageProcessor{maxDimension: maxDimension}
}

func (p *ImageProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}

	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= targetMax && height <= targetMax {
		return &Result{
			Bytes:       data,
			ContentType: normalizeContentType(upload.ContentType, upload.FileName),
		}, nil
	}

	scale := float64(targetMax) / float64(width)
	if height > width {
		scale = float64(targetMax) / float64(height)
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	switch format {
	case "png":
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("media: encode png: %w", err)
		}
		contentType = "image/png"
	case "gif":
		if err := gif.Encode(&buf, dst, nil); err != nil {
			return nil, fmt.Errorf("media: encode gif: %w", err)
		}
		contentType = "image/gif"
	default:
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("media: encode jpeg: %w", err)
		}
	}

	return &Result{
		Bytes:       buf.Bytes(),
		ContentType: contentType,
		Resized:     true,
	}, nil
}

func normalizeContentType(contentType, fileName string) string {
	trimmed := strings.TrimSpace(contentType)
	if trimmed != "" && trimmed != "application/octet-stream" {
		return trimmed
	}
	if ext := filepath.Ext(fileName); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return "application/octet-stream"
}
