// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"thumbcraft/internal/ai"
	"thumbcraft/internal/models"
	"thumbcraft/internal/store"
)

// ---------- Fakes ----------

// fakeImages is an ImageGenerator test double. Prompts containing "slow"
// block until release is closed or the context is cancelled.
type fakeImages struct {
	mu         sync.Mutex
	configured bool
	url        string
	err        error
	requests   []ai.ImageRequest
	started    chan struct{}
	release    chan struct{}
}

func (f *fakeImages) Configured() bool { return f.configured }

func (f *fakeImages) GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.ImageResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if strings.Contains(req.Prompt, "slow") {
		if f.started != nil {
			f.started <- struct{}{}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.release:
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ai.ImageResult{URL: f.url, Provider: "fake"}, nil
}

func (f *fakeImages) lastRequest() ai.ImageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// failingRepo fails every write.
type failingRepo struct {
	store.ThumbnailRepository
}

func (failingRepo) Create(context.Context, *models.Thumbnail) (*models.Thumbnail, error) {
	return nil, errors.New("connection reset by peer")
}

func validRequest() models.GenerationRequest {
	return models.GenerationRequest{
		Title:       "Top 10 Tips",
		Style:       "tech",
		ColorScheme: "vibrant",
		ImageSize:   "youtube-thumbnail",
		Format:      "png",
	}
}

func newTestService(images ImageGenerator, repo store.ThumbnailRepository) *Service {
	return New(Options{
		Images:     images,
		Thumbnails: repo,
		Presets: store.NewMemoryStylePresetStore([]models.StylePreset{
			{ID: 4, Name: "Gaming", Settings: models.PresetSettings{Font: "Orbitron", Effects: []string{"glow"}}},
		}),
	})
}

// ---------- Generate ----------

func TestGenerate_NoCredentialUsesPlaceholder(t *testing.T) {
	repo := store.NewMemoryThumbnailStore()
	svc := newTestService(&fakeImages{configured: false}, repo)

	thumb, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if thumb.Dimensions != (models.Dimensions{Width: 1280, Height: 720}) {
		t.Errorf("dimensions: got %+v", thumb.Dimensions)
	}
	if thumb.IsAIGenerated {
		t.Error("placeholder result must not be marked AI generated")
	}
	if !strings.Contains(thumb.ImageURL, "top-10-tips-tech-vibrant") {
		t.Errorf("placeholder url: got %q", thumb.ImageURL)
	}
	if thumb.ID != 1 || thumb.Format != models.FormatPNG || thumb.TextPosition != models.DefaultTextPosition {
		t.Errorf("record: %+v", thumb)
	}
	if thumb.CreatedAt.IsZero() || thumb.CreatedAt.Location() != time.UTC {
		t.Errorf("createdAt: %v", thumb.CreatedAt)
	}

	list, _ := repo.List(context.Background())
	if len(list) != 1 {
		t.Errorf("expected the thumbnail to be persisted, store has %d", len(list))
	}
}

func TestGenerate_NilImagesUsesPlaceholder(t *testing.T) {
	svc := New(Options{Thumbnails: store.NewMemoryThumbnailStore(), PlaceholderBaseURL: "http://ph.local"})
	thumb, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(thumb.ImageURL, "http://ph.local/1280/720?random=") {
		t.Errorf("url: got %q", thumb.ImageURL)
	}
}

func TestGenerate_PlaceholderIsDeterministic(t *testing.T) {
	svc := newTestService(nil, store.NewMemoryThumbnailStore())
	a, _ := svc.Generate(context.Background(), validRequest())
	b, _ := svc.Generate(context.Background(), validRequest())
	if a.ImageURL != b.ImageURL {
		t.Errorf("placeholder urls differ: %q vs %q", a.ImageURL, b.ImageURL)
	}
	if b.ID <= a.ID {
		t.Errorf("ids should grow: %d then %d", a.ID, b.ID)
	}
}

func TestGenerate_ProviderSuccess(t *testing.T) {
	images := &fakeImages{configured: true, url: "https://cdn.example.com/ai.png"}
	svc := newTestService(images, store.NewMemoryThumbnailStore())

	req := validRequest()
	req.ImageSize = "instagram-story"
	req.Format = "JPG"
	thumb, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !thumb.IsAIGenerated || thumb.ImageURL != "https://cdn.example.com/ai.png" {
		t.Errorf("result: %+v", thumb)
	}
	if thumb.Format != models.FormatJPEG {
		t.Errorf("format: got %q", thumb.Format)
	}

	sent := images.lastRequest()
	if sent.AspectRatio != "portrait_9_16" || sent.Resolution != "2k" {
		t.Errorf("provider request: %+v", sent)
	}
	if !strings.Contains(sent.Prompt, `"Top 10 Tips"`) {
		t.Errorf("prompt missing title: %q", sent.Prompt)
	}
}

func TestGenerate_ProviderFailureFallsBack(t *testing.T) {
	for name, images := range map[string]*fakeImages{
		"error":  {configured: true, err: errors.New("freepik API error (status 500): boom")},
		"no url": {configured: true, url: ""},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(images, store.NewMemoryThumbnailStore())
			thumb, err := svc.Generate(context.Background(), validRequest())
			if err != nil {
				t.Fatalf("provider failure must not surface: %v", err)
			}
			if thumb.IsAIGenerated || !strings.Contains(thumb.ImageURL, "top-10-tips-tech-vibrant") {
				t.Errorf("expected placeholder, got %+v", thumb)
			}
		})
	}
}

func TestGenerate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GenerationRequest)
		field  string
		msg    string
	}{
		{"missing title", func(r *models.GenerationRequest) { r.Title = "  " }, "title", "Title is required"},
		{"long title", func(r *models.GenerationRequest) { r.Title = strings.Repeat("a", 61) }, "title", "Title must be 60 characters or less"},
		{"long description", func(r *models.GenerationRequest) { r.Description = strings.Repeat("d", 151) }, "description", "Description must be 150 characters or less"},
		{"missing style", func(r *models.GenerationRequest) { r.Style = "" }, "style", "Please select a style"},
		{"missing color scheme", func(r *models.GenerationRequest) { r.ColorScheme = "" }, "colorScheme", "Please select a color scheme"},
		{"missing size", func(r *models.GenerationRequest) { r.ImageSize = "" }, "imageSize", "Please select an image size"},
		{"long style", func(r *models.GenerationRequest) { r.Style = strings.Repeat("s", 200) }, "style", "Value must be 64 characters or less"},
		{"long color scheme", func(r *models.GenerationRequest) { r.ColorScheme = strings.Repeat("c", 65) }, "colorScheme", "Value must be 64 characters or less"},
		{"long size", func(r *models.GenerationRequest) { r.ImageSize = strings.Repeat("z", 65) }, "imageSize", "Value must be 64 characters or less"},
		{"bad format", func(r *models.GenerationRequest) { r.Format = "gif" }, "format", "Format must be png or jpeg"},
		{"position out of range", func(r *models.GenerationRequest) { r.TextPosition = &models.TextPosition{X: 101, Y: 50} }, "textPosition", "Text position must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := store.NewMemoryThumbnailStore()
			svc := newTestService(nil, repo)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Generate(context.Background(), req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Fields[tt.field] != tt.msg {
				t.Errorf("field %s: got %q, want %q", tt.field, verr.Fields[tt.field], tt.msg)
			}
			if list, _ := repo.List(context.Background()); len(list) != 0 {
				t.Error("invalid request must not be persisted")
			}
		})
	}
}

func TestGenerate_MultiByteTitleWithinLimit(t *testing.T) {
	req := validRequest()
	req.Title = strings.Repeat("é", 60)
	if err := Validate(req); err != nil {
		t.Errorf("60 runes should be accepted: %v", err)
	}
}

func TestGenerate_StoresTrimmedTitle(t *testing.T) {
	repo := store.NewMemoryThumbnailStore()
	svc := newTestService(nil, repo)

	req := validRequest()
	req.Title = "     " + strings.Repeat("a", 60) + "\t"
	thumb, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if thumb.Title != strings.Repeat("a", 60) {
		t.Errorf("stored title: got %q (%d runes)", thumb.Title, len([]rune(thumb.Title)))
	}
}

func TestGenerate_UnknownSizeWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := validRequest()
	req.ImageSize = "poster"
	thumb, err := newTestService(nil, store.NewMemoryThumbnailStore()).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if thumb.Dimensions != (models.Dimensions{Width: 800, Height: 450}) {
		t.Errorf("dimensions: got %+v", thumb.Dimensions)
	}
	if !strings.Contains(buf.String(), "unknown image size") || !strings.Contains(buf.String(), "image_size=poster") {
		t.Errorf("expected an unknown-size warning, got %q", buf.String())
	}
}

func TestGenerate_LiveModeNotPersisted(t *testing.T) {
	repo := store.NewMemoryThumbnailStore()
	svc := newTestService(nil, repo)

	req := validRequest()
	req.LiveMode = true
	thumb, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if thumb.ID != 0 || !thumb.LiveGenerated {
		t.Errorf("live result: %+v", thumb)
	}
	if list, _ := repo.List(context.Background()); len(list) != 0 {
		t.Errorf("live result was persisted: %+v", list)
	}
}

func TestGenerate_AppliesPreset(t *testing.T) {
	images := &fakeImages{configured: true, url: "https://x/y.png"}
	svc := newTestService(images, store.NewMemoryThumbnailStore())

	req := validRequest()
	req.Style = ""
	req.PresetID = 4
	thumb, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if thumb.Style != "gaming" {
		t.Errorf("style: got %q, want gaming", thumb.Style)
	}
	if p := images.lastRequest().Prompt; !strings.Contains(p, "Typography: Orbitron font.") {
		t.Errorf("preset settings missing from prompt: %q", p)
	}
}

func TestGenerate_UnknownPreset(t *testing.T) {
	svc := newTestService(nil, store.NewMemoryThumbnailStore())
	req := validRequest()
	req.PresetID = 99

	_, err := svc.Generate(context.Background(), req)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["presetId"] == "" {
		t.Errorf("expected presetId validation error, got %v", err)
	}
}

func TestGenerate_RepositoryFailureIsUnavailable(t *testing.T) {
	svc := newTestService(nil, failingRepo{})
	_, err := svc.Generate(context.Background(), validRequest())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Errorf("message: %q", err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "Title is required", "style": "Please select a style"}}
	want := "invalid request: style: Please select a style; title: Title is required"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

// ---------- Live mode ----------

func TestGenerateLive_NewerRequestSupersedes(t *testing.T) {
	images := &fakeImages{
		configured: true,
		url:        "https://x/latest.png",
		started:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
	repo := store.NewMemoryThumbnailStore()
	svc := newTestService(images, repo)
	ctx := context.Background()

	slow := validRequest()
	slow.Description = "slow"

	type result struct {
		thumb *models.Thumbnail
		err   error
	}
	first := make(chan result, 1)
	go func() {
		th, err := svc.GenerateLive(ctx, "tab-1", slow)
		first <- result{th, err}
	}()
	<-images.started

	second, err := svc.GenerateLive(ctx, "tab-1", validRequest())
	if err != nil {
		t.Fatalf("second live request: %v", err)
	}
	if second.ImageURL != "https://x/latest.png" || second.ID != 0 {
		t.Errorf("second result: %+v", second)
	}

	select {
	case r := <-first:
		if !errors.Is(r.err, ErrSuperseded) {
			t.Errorf("first request: expected ErrSuperseded, got %+v, %v", r.thumb, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not cancelled")
	}

	if list, _ := repo.List(ctx); len(list) != 0 {
		t.Error("live results must not be persisted")
	}
}

func TestGenerateLive_SessionsAreIndependent(t *testing.T) {
	svc := newTestService(nil, store.NewMemoryThumbnailStore())
	ctx := context.Background()

	if _, err := svc.GenerateLive(ctx, "a", validRequest()); err != nil {
		t.Fatalf("session a: %v", err)
	}
	if _, err := svc.GenerateLive(ctx, "b", validRequest()); err != nil {
		t.Fatalf("session b: %v", err)
	}
}

func TestGenerateLive_ValidationSettlesSequence(t *testing.T) {
	svc := newTestService(nil, store.NewMemoryThumbnailStore())
	req := validRequest()
	req.Title = ""

	var verr *ValidationError
	if _, err := svc.GenerateLive(context.Background(), "s", req); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.GenerateLive(context.Background(), "s", validRequest()); err != nil {
		t.Errorf("follow-up request: %v", err)
	}
}
