// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// ImageFormat is the raster format a thumbnail is rendered and downloaded in.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// ParseImageFormat normalises a user-supplied format string. "jpg" is
// accepted as an alias of "jpeg". The second return value is false for
// anything that is not png or jpeg.
func ParseImageFormat(s string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	}
	return "", false
}

// ContentType returns the MIME type for the format.
func (f ImageFormat) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Dimensions is a pixel size.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextPosition places the overlay text, as percentages of the image size.
type TextPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultTextPosition centres the overlay.
var DefaultTextPosition = TextPosition{X: 50, Y: 50}

// GenerationRequest is the form state submitted for a thumbnail.
type GenerationRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Style        string           `json:"style"`
	ColorScheme  string           `json:"colorScheme"`
	Format       string           `json:"format"`
	ImageSize    string           `json:"imageSize"`
	TextPosition *TextPosition    `json:"textPosition,omitempty"`
	TextEffects  TextEffectConfig `json:"textEffects"`
	LiveMode     bool             `json:"liveMode"`

	// PresetID optionally applies a style preset; the preset name then
	// replaces Style and its settings travel with the request.
	PresetID       int64           `json:"presetId,omitempty"`
	PresetSettings *PresetSettings `json:"presetSettings,omitempty"`
}

// Thumbnail is a generated image together with the form state that produced it.
type Thumbnail struct {
	ID            int64            `json:"Id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Style         string           `json:"style"`
	ColorScheme   string           `json:"colorScheme"`
	ImageURL      string           `json:"imageUrl"`
	Format        ImageFormat      `json:"format"`
	ImageSize     string           `json:"imageSize"`
	TextEffects   TextEffectConfig `json:"textEffects"`
	TextPosition  TextPosition     `json:"textPosition"`
	IsAIGenerated bool             `json:"isAIGenerated"`
	LiveGenerated bool             `json:"liveGenerated"`
	CreatedAt     time.Time        `json:"createdAt"`
	Dimensions    Dimensions       `json:"dimensions"`
}

// ThumbnailPatch carries a partial update. Nil fields are left untouched.
// The image URL is fixed at generation time and cannot be patched.
type ThumbnailPatch struct {
	Title        *string           `json:"title,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Style        *string           `json:"style,omitempty"`
	ColorScheme  *string           `json:"colorScheme,omitempty"`
	Format       *ImageFormat      `json:"format,omitempty"`
	TextEffects  *TextEffectConfig `json:"textEffects,omitempty"`
	TextPosition *TextPosition     `json:"textPosition,omitempty"`
}

// Apply merges the patch into t. The ID is never touched.
func (p ThumbnailPatch) Apply(t *Thumbnail) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Style != nil {
		t.Style = *p.Style
	}
	if p.ColorScheme != nil {
		t.ColorScheme = *p.ColorScheme
	}
	if p.Format != nil {
		t.Format = *p.Format
	}
	if p.TextEffects != nil {
		t.TextEffects = *p.TextEffects
	}
	if p.TextPosition != nil {
		t.TextPosition = *p.TextPosition
	}
}

// Download describes where the browser should fetch a prepared download.
type Download struct {
	DownloadURL string      `json:"downloadUrl"`
	Filename    string      `json:"filename"`
	Format      ImageFormat `json:"format"`
	IsBlob      bool        `json:"isBlob"`
}
