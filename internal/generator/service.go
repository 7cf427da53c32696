// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator turns a validated form submission into a thumbnail.
// It resolves the target size, asks the configured image provider for a
// picture (falling back to a deterministic placeholder), persists the
// result unless it came from live mode, and prepares downloads.
package generator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"thumbcraft/internal/ai"
	"thumbcraft/internal/metrics"
	"thumbcraft/internal/models"
	"thumbcraft/internal/prompt"
	"thumbcraft/internal/sizing"
	"thumbcraft/internal/store"
)

// DefaultFetchTimeout bounds the download of a provider image.
const DefaultFetchTimeout = 20 * time.Second

// ImageGenerator is the provider side of generation. *ai.Registry
// satisfies it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.ImageResult, error)
	// Configured reports whether a provider credential is present.
	Configured() bool
}

// BlobStore keeps prepared download bytes and returns a URL for them.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Name() string
}

// Options wires a Service. Thumbnails is required; the rest may be nil.
// A nil HTTPClient is replaced by NewFetchClient.
type Options struct {
	Images             ImageGenerator
	Thumbnails         store.ThumbnailRepository
	Presets            store.StylePresetRepository
	Blobs              BlobStore
	PlaceholderBaseURL string
	FetchTimeout       time.Duration
	HTTPClient         *http.Client
}

// Service orchestrates generation and download preparation.
type Service struct {
	images          ImageGenerator
	thumbs          store.ThumbnailRepository
	presets         store.StylePresetRepository
	blobs           BlobStore
	placeholderBase string
	fetchTimeout    time.Duration
	client          *http.Client
	live            *LiveTracker
	downloads       singleflight.Group
	now             func() time.Time
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewFetchClient(opts.FetchTimeout)
	}
	return &Service{
		images:          opts.Images,
		thumbs:          opts.Thumbnails,
		presets:         opts.Presets,
		blobs:           opts.Blobs,
		placeholderBase: opts.PlaceholderBaseURL,
		fetchTimeout:    opts.FetchTimeout,
		client:          opts.HTTPClient,
		live:            NewLiveTracker(),
		now:             time.Now,
	}
}

// Generate produces a thumbnail for req. Explicit submissions are
// persisted; requests with LiveMode set are returned with Id 0 and never
// stored. Validation problems come back as *ValidationError; anything else
// that goes wrong after validation is reported as ErrServiceUnavailable.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) (*models.Thumbnail, error) {
	thumb, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if thumb.LiveGenerated {
		return thumb, nil
	}

	saved, err := s.thumbs.Create(ctx, thumb)
	if err != nil {
		slog.Error("persist thumbnail failed", "title", thumb.Title, "error", err)
		return nil, ErrServiceUnavailable
	}
	slog.Info("thumbnail generated", "id", saved.ID, "ai", saved.IsAIGenerated, "size", saved.ImageSize)
	return saved, nil
}

// GenerateLive runs a live-mode generation for session. A newer request
// from the same session cancels this one, and a result that is overtaken
// before it completes is discarded with ErrSuperseded.
func (s *Service) GenerateLive(ctx context.Context, session string, req models.GenerationRequest) (*models.Thumbnail, error) {
	req.LiveMode = true

	seq, liveCtx := s.live.Begin(ctx, session)
	thumb, err := s.build(liveCtx, req)
	if err != nil {
		s.live.End(session, seq)
		return nil, err
	}
	if !s.live.Commit(session, seq) {
		metrics.RecordSuperseded()
		slog.Debug("live result superseded", "session", session, "seq", seq)
		return nil, ErrSuperseded
	}
	return thumb, nil
}

// build validates req and assembles the thumbnail without persisting it.
func (s *Service) build(ctx context.Context, req models.GenerationRequest) (*models.Thumbnail, error) {
	req, err := s.applyPreset(ctx, req)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := Validate(req); err != nil {
		return nil, err
	}
	if !sizing.Valid(req.ImageSize) {
		slog.Warn("unknown image size, using default dimensions", "image_size", req.ImageSize, "default", sizing.Default)
	}

	format := models.FormatPNG
	if req.Format != "" {
		format, _ = models.ParseImageFormat(req.Format)
	}
	position := models.DefaultTextPosition
	if req.TextPosition != nil {
		position = *req.TextPosition
	}

	dims := sizing.Resolve(req.ImageSize)
	imageURL, source := s.resolveImage(ctx, req, dims)
	metrics.RecordGeneration(source, req.LiveMode)

	return &models.Thumbnail{
		Title:         req.Title,
		Description:   req.Description,
		Style:         req.Style,
		ColorScheme:   req.ColorScheme,
		ImageURL:      imageURL,
		Format:        format,
		ImageSize:     req.ImageSize,
		TextEffects:   req.TextEffects,
		TextPosition:  position,
		IsAIGenerated: source != sourcePlaceholder,
		LiveGenerated: req.LiveMode,
		CreatedAt:     s.now().UTC(),
		Dimensions:    dims,
	}, nil
}

const sourcePlaceholder = "placeholder"

// resolveImage asks the provider for an image and returns its URL and the
// provider name. Without a credential, or when the provider fails, it
// returns a placeholder URL and sourcePlaceholder.
func (s *Service) resolveImage(ctx context.Context, req models.GenerationRequest, dims models.Dimensions) (string, string) {
	placeholder := ai.PlaceholderURL(s.placeholderBase, req.Title, req.Style, req.ColorScheme, dims)
	if s.images == nil || !s.images.Configured() {
		return placeholder, sourcePlaceholder
	}

	start := time.Now()
	res, err := s.images.GenerateImage(ctx, ai.ImageRequest{
		Prompt:      prompt.Build(req),
		AspectRatio: sizing.AspectRatio(dims),
		Resolution:  sizing.Resolution(dims),
		Dimensions:  dims,
	})
	if err == nil && res.URL == "" {
		err = ai.ErrNoImageURL
	}
	metrics.RecordProvider(time.Since(start).Seconds(), err != nil)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Debug("image generation cancelled, using placeholder", "title", req.Title)
		} else {
			slog.Warn("image generation failed, using placeholder", "title", req.Title, "error", err)
		}
		return placeholder, sourcePlaceholder
	}
	return res.URL, res.Provider
}

// applyPreset copies a selected preset into the request: the style becomes
// the lower-cased preset name and the preset settings travel along.
func (s *Service) applyPreset(ctx context.Context, req models.GenerationRequest) (models.GenerationRequest, error) {
	if req.PresetID == 0 || s.presets == nil {
		return req, nil
	}

	preset, err := s.presets.FindByID(ctx, req.PresetID)
	if errors.Is(err, store.ErrNotFound) {
		return req, &ValidationError{Fields: map[string]string{"presetId": "Style preset not found"}}
	}
	if err != nil {
		slog.Error("load style preset failed", "preset_id", req.PresetID, "error", err)
		return req, ErrServiceUnavailable
	}

	req.Style = preset.StyleKey()
	settings := preset.Settings
	req.PresetSettings = &settings
	return req, nil
}
