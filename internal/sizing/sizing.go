// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sizing maps named image-size presets to pixel dimensions and to
// the aspect-ratio and resolution buckets the image provider understands.
package sizing

import (
	"math"

	"thumbcraft/internal/models"
)

// Default is returned for unknown size keys.
var Default = models.Dimensions{Width: 800, Height: 450}

// Provider aspect-ratio buckets.
const (
	AspectSquare1x1     = "square_1_1"
	AspectLandscape16x9 = "landscape_16_9"
	AspectLandscape4x3  = "landscape_4_3"
	AspectPortrait9x16  = "portrait_9_16"
	AspectPortrait3x4   = "portrait_3_4"
)

// Provider resolution tiers.
const (
	Resolution1K = "1k"
	Resolution2K = "2k"
)

// ratioTolerance is how far a w/h ratio may drift from a bucket and still match.
const ratioTolerance = 0.1

// SizeOption is one selectable preset.
type SizeOption struct {
	Key        string            `json:"value"`
	Label      string            `json:"label"`
	Dimensions models.Dimensions `json:"dimensions"`
}

var options = []SizeOption{
	{"youtube-thumbnail", "YouTube Thumbnail (1280×720)", models.Dimensions{Width: 1280, Height: 720}},
	{"instagram-post", "Instagram Post (1080×1080)", models.Dimensions{Width: 1080, Height: 1080}},
	{"instagram-story", "Instagram Story (1080×1920)", models.Dimensions{Width: 1080, Height: 1920}},
	{"facebook-post", "Facebook Post (1200×630)", models.Dimensions{Width: 1200, Height: 630}},
	{"facebook-cover", "Facebook Cover (1640×859)", models.Dimensions{Width: 1640, Height: 859}},
	{"twitter-post", "Twitter Post (1024×512)", models.Dimensions{Width: 1024, Height: 512}},
	{"linkedin-post", "LinkedIn Post (1200×627)", models.Dimensions{Width: 1200, Height: 627}},
	{"blog-header", "Blog Header (1200×600)", models.Dimensions{Width: 1200, Height: 600}},
}

var byKey = func() map[string]models.Dimensions {
	m := make(map[string]models.Dimensions, len(options))
	for _, o := range options {
		m[o.Key] = o.Dimensions
	}
	return m
}()

// buckets are checked in order; the first within tolerance wins.
var buckets = []struct {
	ratio float64
	name  string
}{
	{1, AspectSquare1x1},
	{16.0 / 9.0, AspectLandscape16x9},
	{4.0 / 3.0, AspectLandscape4x3},
	{9.0 / 16.0, AspectPortrait9x16},
	{3.0 / 4.0, AspectPortrait3x4},
}

// Resolve returns the pixel size for a preset key, or Default.
func Resolve(key string) models.Dimensions {
	if d, ok := byKey[key]; ok {
		return d
	}
	return Default
}

// Valid reports whether key names a known preset.
func Valid(key string) bool {
	_, ok := byKey[key]
	return ok
}

// Options returns the presets in display order.
func Options() []SizeOption {
	out := make([]SizeOption, len(options))
	copy(out, options)
	return out
}

// AspectRatio picks the provider bucket closest to d, defaulting to 16:9.
func AspectRatio(d models.Dimensions) string {
	if d.Width <= 0 || d.Height <= 0 {
		return AspectLandscape16x9
	}
	ratio := float64(d.Width) / float64(d.Height)
	for _, b := range buckets {
		if math.Abs(ratio-b.ratio) < ratioTolerance {
			return b.name
		}
	}
	return AspectLandscape16x9
}

// Resolution returns "2k" when the longer side is at least 1920px.
func Resolution(d models.Dimensions) string {
	if max(d.Width, d.Height) >= 1920 {
		return Resolution2K
	}
	return Resolution1K
}
