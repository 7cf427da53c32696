// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt composes the free-text image generation prompt from the
// thumbnail form fields.
package prompt

import (
	"fmt"
	"strings"

	"thumbcraft/internal/models"
)

// stylePhrases describes each visual style to the image model.
var stylePhrases = map[string]string{
	"minimalist":   "clean, simple, modern design with plenty of white space, minimalist aesthetic",
	"vibrant":      "bright, energetic colors with bold typography and dynamic elements, vibrant and eye-catching",
	"professional": "corporate, clean, sophisticated design with professional fonts, business-like appearance",
	"gaming":       "futuristic, neon colors, gaming aesthetic with bold graphics, digital art style",
	"tech":         "modern tech design with gradients, geometric shapes, and tech elements, futuristic look",
	"corporate":    "business professional, clean lines, corporate colors, executive presentation style",
}

// colorPhrases describes each color scheme to the image model.
var colorPhrases = map[string]string{
	"vibrant":      "bright, saturated, vivid colors with high contrast",
	"professional": "muted, professional color palette with subtle tones",
	"monochrome":   "black and white with subtle grays, monochromatic scheme",
	"corporate":    "corporate blue, gray, and white colors, business color scheme",
	"rainbow":      "rainbow gradient colors with spectrum effects",
	"pastel":       "soft pastel colors with gentle, light tones",
}

// StylePhrase returns the descriptive clause for a style, or the style
// itself when it has no entry.
func StylePhrase(style string) string {
	if p, ok := stylePhrases[style]; ok {
		return p
	}
	return style
}

// ColorPhrase returns the descriptive clause for a color scheme, or the
// scheme itself when it has no entry.
func ColorPhrase(scheme string) string {
	if p, ok := colorPhrases[scheme]; ok {
		return p
	}
	return scheme
}

// Build assembles the generation prompt. It never fails.
func Build(req models.GenerationRequest) string {
	var b strings.Builder

	// Only the first hyphen is replaced: "youtube-thumbnail" → "youtube thumbnail".
	size := strings.Replace(req.ImageSize, "-", " ", 1)
	fmt.Fprintf(&b, "Create a stunning %s thumbnail design for \"%s\". ", size, req.Title)

	if desc := strings.TrimSpace(req.Description); desc != "" {
		fmt.Fprintf(&b, "Content: %s.", desc)
	}

	fmt.Fprintf(&b, " Visual style: %s.", StylePhrase(req.Style))
	fmt.Fprintf(&b, " Color palette: %s.", ColorPhrase(req.ColorScheme))

	if s := req.PresetSettings; s != nil {
		if s.Font != "" {
			fmt.Fprintf(&b, " Typography: %s font.", s.Font)
		}
		if len(s.Effects) > 0 {
			fmt.Fprintf(&b, " Text treatment: %s.", strings.Join(s.Effects, ", "))
		}
	}

	b.WriteString(" High quality, professional design, eye-catching composition, perfect for social media.")
	return b.String()
}
