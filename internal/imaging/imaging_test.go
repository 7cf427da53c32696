// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"thumbcraft/internal/models"
)

// encodeTestPNG builds a w×h PNG with a transparent left half.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x >= w/2 {
				img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestConvert_PNGToJPEG(t *testing.T) {
	src := encodeTestPNG(t, 40, 20)

	res, err := Convert(src, models.FormatJPEG, 0)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.ContentType != "image/jpeg" {
		t.Errorf("content type: got %q", res.ContentType)
	}
	if DetectType(res.Data) != "image/jpeg" {
		t.Errorf("output sniffed as %q", DetectType(res.Data))
	}

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	// The transparent half must be flattened onto white.
	r, g, b, _ := img.At(2, 10).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel not flattened to white: %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestConvert_JPEGToPNG(t *testing.T) {
	res, err := Convert(encodeTestJPEG(t, 16, 16), models.FormatPNG, 0)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if DetectType(res.Data) != "image/png" || res.Width != 16 || res.Height != 16 {
		t.Errorf("result: type %q, %dx%d", DetectType(res.Data), res.Width, res.Height)
	}
}

func TestConvert_SameFormatPassesThrough(t *testing.T) {
	src := encodeTestPNG(t, 10, 10)
	res, err := Convert(src, models.FormatPNG, 100)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !bytes.Equal(res.Data, src) {
		t.Error("expected original bytes for a matching format")
	}
}

func TestConvert_ScalesDown(t *testing.T) {
	res, err := Convert(encodeTestPNG(t, 200, 100), models.FormatPNG, 50)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Width != 50 || res.Height != 25 {
		t.Errorf("scaled size: got %dx%d, want 50x25", res.Width, res.Height)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("encoded size: got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestConvert_Unsupported(t *testing.T) {
	tests := map[string][]byte{
		"html":  []byte("<html><body>403 Forbidden</body></html>"),
		"empty": nil,
		"json":  []byte(`{"error":"expired"}`),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Convert(data, models.FormatPNG, 0); !errors.Is(err, ErrUnsupported) {
				t.Errorf("expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestConvert_TruncatedImage(t *testing.T) {
	src := encodeTestPNG(t, 30, 30)
	if _, err := Convert(src[:40], models.FormatJPEG, 0); err == nil {
		t.Error("expected error for truncated png")
	}
}
