// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"strings"
	"unicode/utf8"

	"thumbcraft/internal/models"
)

// Validation limits for the generation form.
const (
	MaxTitleLen       = 60
	MaxDescriptionLen = 150

	// MaxOptionLen bounds the free-form style, colour scheme and size keys.
	MaxOptionLen = 64
)

// Validate checks a generation request and returns nil or a
// *ValidationError listing every offending field. Unknown style, colour
// scheme or size values are accepted; they fall back to raw phrases and
// the default size downstream.
func Validate(req models.GenerationRequest) error {
	fields := make(map[string]string)

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		fields["title"] = "Title is required"
	case utf8.RuneCountInString(title) > MaxTitleLen:
		fields["title"] = "Title must be 60 characters or less"
	}
	if utf8.RuneCountInString(req.Description) > MaxDescriptionLen {
		fields["description"] = "Description must be 150 characters or less"
	}
	checkOption(fields, "style", req.Style, "Please select a style")
	checkOption(fields, "colorScheme", req.ColorScheme, "Please select a color scheme")
	checkOption(fields, "imageSize", req.ImageSize, "Please select an image size")
	if req.Format != "" {
		if _, ok := models.ParseImageFormat(req.Format); !ok {
			fields["format"] = "Format must be png or jpeg"
		}
	}
	if p := req.TextPosition; p != nil && !ValidPosition(*p) {
		fields["textPosition"] = "Text position must be between 0 and 100"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkOption records a missing or oversized option value under field.
func checkOption(fields map[string]string, field, value, missing string) {
	switch {
	case strings.TrimSpace(value) == "":
		fields[field] = missing
	case utf8.RuneCountInString(value) > MaxOptionLen:
		fields[field] = "Value must be 64 characters or less"
	}
}

// ValidOption reports whether value fits an option column.
func ValidOption(value string) bool {
	return strings.TrimSpace(value) != "" && utf8.RuneCountInString(value) <= MaxOptionLen
}

// ValidPosition reports whether both coordinates are percentages.
func ValidPosition(p models.TextPosition) bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}
