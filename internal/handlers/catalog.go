package handlers

import (
	"net/http"

	"thumbcraft/internal/effects"
	"thumbcraft/internal/models"
	"thumbcraft/internal/sizing"
	"thumbcraft/internal/store"
)

// Catalog serves the read-only reference data the form is built from.
type Catalog struct {
	presets store.StylePresetRepository
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(presets store.StylePresetRepository) *Catalog {
	return &Catalog{presets: presets}
}

// Sizes lists the selectable image-size presets.
func (c *Catalog) Sizes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sizing.Options())
}

// Presets lists the style presets.
func (c *Catalog) Presets(w http.ResponseWriter, r *http.Request) {
	presets, err := c.presets.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if presets == nil {
		presets = []models.StylePreset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

// Preset returns one style preset.
func (c *Catalog) Preset(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "style preset")
	if !ok {
		return
	}
	p, err := c.presets.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// EffectsPreview turns a text-effect configuration into render parameters.
func (c *Catalog) EffectsPreview(w http.ResponseWriter, r *http.Request) {
	var cfg models.TextEffectConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	writeJSON(w, http.StatusOK, effects.Compose(cfg))
}
