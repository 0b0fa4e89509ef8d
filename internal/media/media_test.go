//go:build unit

package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_KeepsPNG(t *testing.T) {
	got, err := Process(encodePNG(t, 40, 20), Limits{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.ContentType != "image/png" || !strings.HasSuffix(got.Name, ".png") {
		t.Errorf("expected png output, got %s (%s)", got.ContentType, got.Name)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("small image should keep its size, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcess_ScalesLargeJPEG(t *testing.T) {
	got, err := Process(encodeJPEG(t, 2400, 1200), Limits{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.ContentType != "image/jpeg" {
		t.Errorf("expected jpeg output, got %s", got.ContentType)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	if cfg.Width != DisplayWidth || cfg.Height != DisplayHeight/2 {
		t.Errorf("expected %dx%d, got %dx%d", DisplayWidth, DisplayHeight/2, cfg.Width, cfg.Height)
	}
}

func TestProcess_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		data   []byte
		limits Limits
		want   error
	}{
		{name: "empty", data: nil, want: ErrEmpty},
		{name: "text", data: []byte("definitely not an image"), want: ErrUnsupported},
		{name: "too many bytes", data: encodePNG(t, 10, 10), limits: Limits{MaxBytes: 10}, want: ErrTooLarge},
		{name: "too wide", data: encodePNG(t, 50, 10), limits: Limits{MaxWidth: 40, MaxHeight: 40}, want: ErrDimensions},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Process(tc.data, tc.limits)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
