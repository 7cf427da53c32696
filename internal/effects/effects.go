// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package effects turns a text-effect configuration into the CSS-like
// render parameters used to draw the title and description overlay on top
// of a generated image. Everything here is pure and stateless.
package effects

import (
	"fmt"
	"strconv"
	"strings"

	"thumbcraft/internal/models"
)

const (
	// defaultTextColor is used whenever no gradient is active.
	defaultTextColor = "#ffffff"

	// secondaryFactor dims shadow alpha and gradient opacity on the description line.
	secondaryFactor = 0.8

	// descriptionOpacity is the base opacity of the description line.
	descriptionOpacity = 0.9

	titleFallbackShadow       = "0 2px 4px rgba(0, 0, 0, 0.5)"
	descriptionFallbackShadow = "0 1px 2px rgba(0, 0, 0, 0.5)"
)

// directions maps the form's gradient direction keys to CSS keywords.
var directions = map[string]string{
	"to-r":  "to right",
	"to-l":  "to left",
	"to-b":  "to bottom",
	"to-t":  "to top",
	"to-br": "to bottom right",
	"to-bl": "to bottom left",
	"to-tr": "to top right",
	"to-tl": "to top left",
}

// TextStyle is the set of render parameters for one line of overlay text.
// Empty strings mean "not set".
type TextStyle struct {
	Color           string  `json:"color"`
	BackgroundImage string  `json:"backgroundImage,omitempty"`
	BackgroundClip  string  `json:"backgroundClip,omitempty"`
	TextFillColor   string  `json:"textFillColor,omitempty"`
	TextShadow      string  `json:"textShadow,omitempty"`
	TextStroke      string  `json:"textStroke,omitempty"`
	StrokeStyle     string  `json:"strokeStyle,omitempty"`
	Opacity         float64 `json:"opacity"`
}

// Overlay holds the styles for the title and the description line.
type Overlay struct {
	Title       TextStyle `json:"title"`
	Description TextStyle `json:"description"`
}

// Compose maps cfg to render parameters. Gradient, shadow, outline and
// glow combine additively; with everything disabled the result is plain
// white text with a fixed subtle drop shadow.
func Compose(cfg models.TextEffectConfig) Overlay {
	title := TextStyle{Color: defaultTextColor, Opacity: 1}
	desc := TextStyle{Color: defaultTextColor, Opacity: descriptionOpacity}

	if g := cfg.Gradient; g.Enabled {
		gradient := Gradient(g)
		for _, s := range []*TextStyle{&title, &desc} {
			s.Color = "transparent"
			s.BackgroundImage = gradient
			s.BackgroundClip = "text"
			s.TextFillColor = "transparent"
		}
		desc.Opacity = round(descriptionOpacity * secondaryFactor)
	}

	var titleShadows, descShadows []string
	if s := cfg.Shadow; s.Enabled {
		titleShadows = append(titleShadows, Shadow(s, 1))
		descShadows = append(descShadows, Shadow(s, secondaryFactor))
	}
	if g := cfg.Glow; g.Enabled {
		titleShadows = append(titleShadows, Glow(g, 1))
		descShadows = append(descShadows, Glow(g, secondaryFactor))
	}

	if !cfg.Shadow.Enabled && !cfg.Glow.Enabled && !cfg.Gradient.Enabled && !cfg.Outline.Enabled {
		titleShadows = []string{titleFallbackShadow}
		descShadows = []string{descriptionFallbackShadow}
	}
	title.TextShadow = strings.Join(titleShadows, ", ")
	desc.TextShadow = strings.Join(descShadows, ", ")

	if o := cfg.Outline; o.Enabled {
		width := clamp(o.Width, 1, 8)
		title.TextStroke = Stroke(width, o.Color)
		desc.TextStroke = Stroke(max(width-1, 1), o.Color)
		style := outlineStyle(o.Style)
		title.StrokeStyle = style
		desc.StrokeStyle = style
	}

	return Overlay{Title: title, Description: desc}
}

// Gradient renders a two-stop linear gradient. Missing colours fall back to
// the form defaults; unknown directions fall back to "to bottom right".
func Gradient(g models.GradientEffect) string {
	from, to := "#ffffff", "#e5e5e5"
	if len(g.Colors) > 0 && g.Colors[0] != "" {
		from = g.Colors[0]
	}
	if len(g.Colors) > 1 && g.Colors[1] != "" {
		to = g.Colors[1]
	}
	dir, ok := directions[g.Direction]
	if !ok {
		dir = directions["to-br"]
	}
	return fmt.Sprintf("linear-gradient(%s, %s, %s)", dir, from, to)
}

// Shadow renders an offset, blur and rgba colour. factor scales the alpha.
func Shadow(s models.ShadowEffect, factor float64) string {
	r, g, b := HexToRGB(s.Color)
	alpha := round(clampFloat(s.Opacity, 0, 1) * factor)
	return fmt.Sprintf("%dpx %dpx %dpx %s",
		clamp(s.OffsetX, -10, 10),
		clamp(s.OffsetY, -10, 10),
		max(s.Blur, 0),
		rgba(r, g, b, alpha),
	)
}

// Glow renders a zero-offset halo. factor scales the intensity.
func Glow(g models.GlowEffect, factor float64) string {
	r, gr, b := HexToRGB(g.Color)
	alpha := round(clampFloat(g.Intensity, 0, 1) * factor)
	return fmt.Sprintf("0 0 %dpx %s", max(g.Size, 0), rgba(r, gr, b, alpha))
}

// Stroke renders a text-stroke value.
func Stroke(width int, color string) string {
	if color == "" {
		color = defaultTextColor
	}
	return fmt.Sprintf("%dpx %s", width, color)
}

// HexToRGB decomposes "#rrggbb" or "#rgb" into channel values. Anything
// unparseable yields black.
func HexToRGB(hex string) (r, g, b int) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func rgba(r, g, b int, a float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(a, 'f', -1, 64))
}

func outlineStyle(s string) string {
	switch s {
	case "dashed", "dotted":
		return s
	}
	return "solid"
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// round trims floating-point noise to three decimals (0.7*0.8 → 0.56).
func round(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return f
}
