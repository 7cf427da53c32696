// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package presets loads the built-in style preset catalogue.
package presets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"thumbcraft/internal/models"
)

//go:embed catalogue.yaml
var catalogue []byte

// Load parses the embedded catalogue.
func Load() ([]models.StylePreset, error) {
	return Parse(catalogue)
}

// Parse decodes a YAML preset list and checks that ids are positive and
// unique and that every preset has a name.
func Parse(data []byte) ([]models.StylePreset, error) {
	var presets []models.StylePreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	seen := make(map[int64]bool, len(presets))
	for i, p := range presets {
		if p.ID <= 0 {
			return nil, fmt.Errorf("preset %d: id must be positive", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("preset %d: duplicate id %d", i, p.ID)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name is required", p.ID)
		}
		seen[p.ID] = true
	}
	return presets, nil
}
