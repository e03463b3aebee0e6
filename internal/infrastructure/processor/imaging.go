package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const (
	_startQuality = 85
	_minQuality   = 40
	_qualityStep  = 10

	_thumbBlurSigma = 12.0
)

type ImageProcessor struct {
	minDimension  int
	maxDimension  int
	outputMaxSide int
	thumbnailSize int
}

func New(minDimension, maxDimension, outputMaxSide, thumbnailSize int) *ImageProcessor {
	return &ImageProcessor{
		minDimension:  minDimension,
		maxDimension:  maxDimension,
		outputMaxSide: outputMaxSide,
		thumbnailSize: thumbnailSize,
	}
}

// Validate checks that the picked file decodes as an image and that its
// dimensions fall within the configured bounds. It never mutates the input.
func (p *ImageProcessor) Validate(ctx context.Context, data []byte) (*dto.ImageInfo, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Validate: %w: not a decodable image", errs.ErrInvalidImage)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w < p.minDimension || h < p.minDimension {
		return nil, fmt.Errorf("ImageProcessor - Validate: %w: image must be at least %dx%d",
			errs.ErrInvalidImage, p.minDimension, p.minDimension)
	}

	if w > p.maxDimension || h > p.maxDimension {
		return nil, fmt.Errorf("ImageProcessor - Validate: %w: image must be at most %dx%d",
			errs.ErrInvalidImage, p.maxDimension, p.maxDimension)
	}

	return &dto.ImageInfo{
		Width:  w,
		Height: h,
		Size:   int64(len(data)),
	}, nil
}

// Optimize re-encodes the image as JPEG under opts.MaxBytes. It lowers the
// encode quality first and halves the dimensions once quality bottoms out,
// so the output never exceeds the byte budget regardless of input size.
func (p *ImageProcessor) Optimize(ctx context.Context, data []byte, opts dto.OptimizeOptions) (*dto.Optimized, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Optimize - decodeImage: %w", err)
	}

	maxSide := p.outputMaxSide
	if opts.MaxDimension > 0 {
		maxSide = opts.MaxDimension
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSide || bounds.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	for {
		for q := _startQuality; q >= _minQuality; q -= _qualityStep {
			encoded, err := encodeJPEG(img, q)
			if err != nil {
				return nil, fmt.Errorf("ImageProcessor - Optimize - encodeJPEG: %w", err)
			}
			if int64(len(encoded)) <= opts.MaxBytes {
				b := img.Bounds()
				return &dto.Optimized{Data: encoded, Width: b.Dx(), Height: b.Dy()}, nil
			}
		}

		b := img.Bounds()
		if b.Dx() <= 2 || b.Dy() <= 2 {
			return nil, fmt.Errorf("ImageProcessor - Optimize: %w: cannot fit image into %d bytes",
				errs.ErrInvalidImage, opts.MaxBytes)
		}
		img = imaging.Resize(img, b.Dx()/2, b.Dy()/2, imaging.Lanczos)
	}
}

// Thumbnail produces a square crop; blur is applied when the owner profile
// has photo_blur_enabled set.
func (p *ImageProcessor) Thumbnail(ctx context.Context, data []byte, blur bool) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - decodeImage: %w", err)
	}

	thumb := imaging.Thumbnail(img, p.thumbnailSize, p.thumbnailSize, imaging.Lanczos)

	if blur {
		thumb = imaging.Blur(thumb, _thumbBlurSigma)
	}

	res, err := encodeJPEG(thumb, _startQuality)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - encodeJPEG: %w", err)
	}

	return res, nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - decodeImage - imaging.Decode: %w", err)
	}

	return img, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer

	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - encodeJPEG - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
