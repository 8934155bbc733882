package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageService prepares cover thumbnails for embedding.
//
// Thumbnails left by the fetcher may be JPEG, PNG or WebP; the service
// always produces a JPEG no larger than the requested bounds.
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// FitJPEG decodes data, scales it down to fit within maxSize x maxSize
// keeping the aspect ratio, and re-encodes it as JPEG.
//
// Images already within bounds are only re-encoded. A non-positive maxSize
// disables scaling.
func (s *ImageService) FitJPEG(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)

	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// fitWithin returns the largest dimensions not exceeding maxSize on either
// side that preserve the width/height ratio.
func fitWithin(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}

	if width >= height {
		h := height * maxSize / width
		if h < 1 {
			h = 1
		}
		return maxSize, h
	}

	w := width * maxSize / height
	if w < 1 {
		w = 1
	}
	return w, maxSize
}
