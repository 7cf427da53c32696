// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging re-encodes fetched thumbnails into the raster format the
// user asked to download. Providers return PNG, JPEG or WebP; output is
// always PNG or JPEG. Images wider than the target are scaled down with
// Catmull-Rom, preserving aspect ratio.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"thumbcraft/internal/models"
)

const (
	// maxImagePixels guards against decompression bombs (50 megapixels).
	maxImagePixels = 50_000_000

	// jpegQuality is used for every JPEG we encode.
	jpegQuality = 90
)

// ErrUnsupported is returned for payloads that are not a decodable image.
var ErrUnsupported = errors.New("imaging: unsupported image type")

// decodable lists the MIME types registered with the image package above.
var decodable = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// Result is a re-encoded image.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// DetectType sniffs the MIME type of data.
func DetectType(data []byte) string {
	return mimetype.Detect(data).String()
}

// Convert re-encodes data as format. A maxWidth above zero scales wider
// images down to that width. When the source already matches the target
// format and needs no scaling, the original bytes are returned untouched.
func Convert(data []byte, format models.ImageFormat, maxWidth int) (*Result, error) {
	mime := DetectType(data)
	if !decodable[mime] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	scale := maxWidth > 0 && cfg.Width > maxWidth
	if !scale && mime == format.ContentType() {
		return &Result{Data: data, ContentType: mime, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if scale {
		img = scaleToWidth(img, maxWidth)
	}

	var buf bytes.Buffer
	switch format {
	case models.FormatJPEG:
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	}

	b := img.Bounds()
	return &Result{Data: buf.Bytes(), ContentType: format.ContentType(), Width: b.Dx(), Height: b.Dy()}, nil
}

// scaleToWidth resizes img to width w, keeping the aspect ratio.
func scaleToWidth(img image.Image, w int) image.Image {
	bounds := img.Bounds()
	h := max(int(float64(bounds.Dy())*float64(w)/float64(bounds.Dx())+0.5), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// flatten composites img over white, since JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
