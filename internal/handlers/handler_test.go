// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory service behind the real route shapes.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"thumbcraft/internal/cache"
	"thumbcraft/internal/generator"
	"thumbcraft/internal/models"
	"thumbcraft/internal/presets"
	"thumbcraft/internal/store"
)

// stubGenerator returns fixed results; nil fields fall through to err.
type stubGenerator struct {
	thumb    *models.Thumbnail
	download *models.Download
	err      error

	gotSession string
	gotFormat  models.ImageFormat
}

func (s *stubGenerator) Generate(context.Context, models.GenerationRequest) (*models.Thumbnail, error) {
	return s.thumb, s.err
}

func (s *stubGenerator) GenerateLive(_ context.Context, session string, _ models.GenerationRequest) (*models.Thumbnail, error) {
	s.gotSession = session
	return s.thumb, s.err
}

func (s *stubGenerator) PrepareDownload(_ context.Context, _ int64, format models.ImageFormat) (*models.Download, error) {
	s.gotFormat = format
	return s.download, s.err
}

// stubBlobs serves a fixed set of blobs.
type stubBlobs struct {
	blobs map[string]*cache.Blob
	err   error
}

func (s *stubBlobs) Get(_ context.Context, token string) (*cache.Blob, error) {
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.blobs[token]
	if !ok {
		return nil, cache.ErrBlobNotFound
	}
	return b, nil
}

type testEnv struct {
	router http.Handler
	thumbs *store.MemoryThumbnailStore
}

// newTestEnv mounts the handlers on a chi router. A nil gen wires a real
// generator.Service with no image provider, so every image is a placeholder.
func newTestEnv(t *testing.T, gen Generator, blobs BlobSource) *testEnv {
	t.Helper()

	catalogue, err := presets.Load()
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	thumbs := store.NewMemoryThumbnailStore()
	presetStore := store.NewMemoryStylePresetStore(catalogue)

	if gen == nil {
		gen = generator.New(generator.Options{
			Thumbnails:         thumbs,
			Presets:            presetStore,
			PlaceholderBaseURL: "https://placeholder.test",
		})
	}
	if blobs == nil {
		blobs = &stubBlobs{}
	}

	th := NewThumbnails(gen, thumbs)
	cat := NewCatalog(presetStore)
	dl := NewDownloads(blobs)

	r := chi.NewRouter()
	r.Get("/api/sizes", cat.Sizes)
	r.Get("/api/presets", cat.Presets)
	r.Get("/api/presets/{id}", cat.Preset)
	r.Post("/api/effects/preview", cat.EffectsPreview)
	r.Get("/api/thumbnails", th.List)
	r.Post("/api/thumbnails", th.Create)
	r.Post("/api/thumbnails/live", th.Live)
	r.Get("/api/thumbnails/{id}", th.Get)
	r.Put("/api/thumbnails/{id}", th.Update)
	r.Delete("/api/thumbnails/{id}", th.Delete)
	r.Get("/api/thumbnails/{id}/download", th.Download)
	r.Get("/api/downloads/{token}", dl.Serve)

	return &testEnv{router: r, thumbs: thumbs}
}

// do sends a request with an optional JSON body.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a response body.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func validBody() map[string]any {
	return map[string]any{
		"title":       "Top 10 Tips",
		"description": "Productivity hacks",
		"style":       "tech",
		"colorScheme": "vibrant",
		"imageSize":   "youtube-thumbnail",
		"format":      "png",
	}
}
