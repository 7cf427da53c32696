// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// TextEffectConfig holds the independently togglable overlay text effects.
// The zero value has every effect disabled.
type TextEffectConfig struct {
	Gradient GradientEffect `json:"gradient"`
	Shadow   ShadowEffect   `json:"shadow"`
	Outline  OutlineEffect  `json:"outline"`
	Glow     GlowEffect     `json:"glow"`
}

// GradientEffect fills the text with a two-stop linear gradient.
// Direction is one of to-r, to-l, to-b, to-t, to-br, to-bl, to-tr, to-tl.
type GradientEffect struct {
	Enabled   bool     `json:"enabled"`
	Colors    []string `json:"colors"`
	Direction string   `json:"direction"`
	Type      string   `json:"type,omitempty"`
}

// ShadowEffect is a drop shadow. Offsets are in [-10, 10], opacity in [0, 1].
type ShadowEffect struct {
	Enabled bool    `json:"enabled"`
	Blur    int     `json:"blur"`
	OffsetX int     `json:"offsetX"`
	OffsetY int     `json:"offsetY"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Spread  int     `json:"spread,omitempty"`
}

// OutlineEffect strokes the text. Width is in [1, 8]; Style is solid,
// dashed or dotted.
type OutlineEffect struct {
	Enabled bool   `json:"enabled"`
	Width   int    `json:"width"`
	Color   string `json:"color"`
	Style   string `json:"style"`
}

// GlowEffect is a soft halo around the text.
type GlowEffect struct {
	Enabled   bool    `json:"enabled"`
	Color     string  `json:"color"`
	Intensity float64 `json:"intensity"`
	Size      int     `json:"size"`
}

// FormTextEffects returns the effect settings a fresh form starts with:
// only the drop shadow is switched on.
func FormTextEffects() TextEffectConfig {
	return TextEffectConfig{
		Gradient: GradientEffect{
			Colors:    []string{"#ffffff", "#e5e5e5"},
			Direction: "to-br",
			Type:      "linear",
		},
		Shadow: ShadowEffect{
			Enabled: true,
			Blur:    4,
			OffsetX: 2,
			OffsetY: 2,
			Color:   "#000000",
			Opacity: 0.7,
		},
		Outline: OutlineEffect{
			Width: 2,
			Color: "#ffffff",
			Style: "solid",
		},
		Glow: GlowEffect{
			Color:     "#6366f1",
			Intensity: 0.5,
			Size:      10,
		},
	}
}
