// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// StylePreset is read-only reference data offered next to the form.
type StylePreset struct {
	ID       int64          `json:"Id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Preview  string         `json:"preview" yaml:"preview"`
	Settings PresetSettings `json:"settings" yaml:"settings"`
}

// PresetSettings describes the typography a preset applies.
type PresetSettings struct {
	Font    string   `json:"font" yaml:"font"`
	Spacing string   `json:"spacing" yaml:"spacing"`
	Effects []string `json:"effects" yaml:"effects"`
}

// StyleKey is the style value a preset sets on a generation request.
func (p *StylePreset) StyleKey() string {
	return strings.ToLower(p.Name)
}
