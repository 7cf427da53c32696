package handlers

import (
	"net/http"
	"testing"

	"thumbcraft/internal/effects"
	"thumbcraft/internal/models"
	"thumbcraft/internal/sizing"
)

func TestSizes(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	got := decode[[]sizing.SizeOption](t, env.do(t, http.MethodGet, "/api/sizes", nil))
	if len(got) != 8 {
		t.Fatalf("sizes: got %d, want 8", len(got))
	}
	if got[0].Key != "youtube-thumbnail" || got[0].Dimensions.Width != 1280 {
		t.Errorf("first size: got %+v", got[0])
	}
}

func TestPresets(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	list := decode[[]models.StylePreset](t, env.do(t, http.MethodGet, "/api/presets", nil))
	if len(list) != 6 {
		t.Fatalf("presets: got %d, want 6", len(list))
	}

	rr := env.do(t, http.MethodGet, "/api/presets/4", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get preset: got %d", rr.Code)
	}
	if p := decode[models.StylePreset](t, rr); p.Name != "Gaming" || p.Settings.Font != "Orbitron" {
		t.Errorf("preset 4: got %+v", p)
	}

	rr = env.do(t, http.MethodGet, "/api/presets/99", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing preset: got %d", rr.Code)
	}
	if got := decode[map[string]string](t, rr)["error"]; got != "style preset with id 99 not found" {
		t.Errorf("missing preset error: got %q", got)
	}
}

func TestEffectsPreview(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	cfg := models.TextEffectConfig{
		Outline: models.OutlineEffect{Enabled: true, Width: 3, Color: "#112233", Style: "solid"},
	}
	rr := env.do(t, http.MethodPost, "/api/effects/preview", cfg)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if got, want := decode[effects.Overlay](t, rr), effects.Compose(cfg); got != want {
		t.Errorf("overlay:\n got %+v\nwant %+v", got, want)
	}
}
