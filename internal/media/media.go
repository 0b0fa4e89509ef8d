// Package media validates and re-encodes uploaded post images.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	// DisplayWidth and DisplayHeight bound the stored image.
	DisplayWidth  = 1200
	DisplayHeight = 1200
)

var (
	ErrEmpty       = errors.New("file is empty")
	ErrTooLarge    = errors.New("file is too large")
	ErrUnsupported = errors.New("unsupported file type, only JPG, PNG, GIF and WebP are allowed")
	ErrDimensions  = errors.New("image dimensions exceed the allowed maximum")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Limits constrains what Process accepts.
type Limits struct {
	MaxBytes  int64
	MaxWidth  int
	MaxHeight int
}

// Image is a processed upload ready to be stored.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Process checks data is a supported image within limits, fixes its
// orientation, scales it down to the display box and re-encodes it. PNG stays
// PNG, everything else becomes JPEG.
func Process(data []byte, limits Limits) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, ErrTooLarge
	}
	if !allowedTypes[http.DetectContentType(data)] {
		return nil, ErrUnsupported
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if (limits.MaxWidth > 0 && cfg.Width > limits.MaxWidth) || (limits.MaxHeight > 0 && cfg.Height > limits.MaxHeight) {
		return nil, fmt.Errorf("%w (%dx%d)", ErrDimensions, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = imaging.Fit(img, DisplayWidth, DisplayHeight, imaging.Lanczos)

	var out bytes.Buffer
	result := &Image{}
	if format == "png" {
		err = imaging.Encode(&out, img, imaging.PNG)
		result.Name = uuid.NewString() + ".png"
		result.ContentType = "image/png"
	} else {
		err = imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(85))
		result.Name = uuid.NewString() + ".jpeg"
		result.ContentType = "image/jpeg"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	result.Data = out.Bytes()
	return result, nil
}
