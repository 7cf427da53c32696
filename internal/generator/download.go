// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"thumbcraft/internal/imaging"
	"thumbcraft/internal/metrics"
	"thumbcraft/internal/models"
	"thumbcraft/internal/slug"
)

// maxFetchBytes caps the size of a fetched provider image.
const maxFetchBytes = 25 << 20

// Download outcomes, used as a metrics label.
const (
	outcomeBlob     = "blob"
	outcomeDirect   = "direct"
	outcomeFallback = "fallback"
)

// Filename derives the download name from the title: lower-cased, every
// whitespace run turned into a hyphen, plus the format extension.
func Filename(title string, format models.ImageFormat) string {
	return slug.Hyphenate(title) + "." + string(format)
}

// PrepareDownload tells the client where to save thumbnail id from.
// Provider images are fetched, re-encoded as format and stored in the blob
// store so the browser downloads them from us. Placeholders, a missing
// blob store and every failure along the way yield the stored URL instead.
// Unknown ids return a *store.NotFoundError.
func (s *Service) PrepareDownload(ctx context.Context, id int64, format models.ImageFormat) (*models.Download, error) {
	thumb, err := s.thumbs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	direct := &models.Download{
		DownloadURL: thumb.ImageURL,
		Filename:    Filename(thumb.Title, format),
		Format:      format,
		IsBlob:      false,
	}
	if !thumb.IsAIGenerated || s.blobs == nil {
		metrics.RecordDownload(string(format), outcomeDirect)
		return direct, nil
	}

	// Concurrent requests for the same image and format share one fetch.
	// The work runs on a detached context so one caller leaving does not
	// fail the others.
	key := fmt.Sprintf("%d|%s|%s", thumb.ID, format, thumb.ImageURL)
	v, err, _ := s.downloads.Do(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*s.fetchTimeout)
		defer cancel()
		return s.materialize(workCtx, thumb, format, direct.Filename)
	})
	if err != nil {
		slog.Warn("download preparation failed, using direct url", "id", id, "format", format, "error", err)
		metrics.RecordDownload(string(format), outcomeFallback)
		return direct, nil
	}

	metrics.RecordDownload(string(format), outcomeBlob)
	return &models.Download{
		DownloadURL: v.(string),
		Filename:    direct.Filename,
		Format:      format,
		IsBlob:      true,
	}, nil
}

// materialize fetches the provider image, converts it and stores it,
// returning the blob URL.
func (s *Service) materialize(ctx context.Context, thumb *models.Thumbnail, format models.ImageFormat, filename string) (string, error) {
	data, err := s.fetch(ctx, thumb.ImageURL)
	if err != nil {
		return "", err
	}

	contentType := format.ContentType()
	res, err := imaging.Convert(data, format, thumb.Dimensions.Width)
	switch {
	case err == nil:
		data = res.Data
	case errors.Is(err, imaging.ErrUnsupported):
		return "", err
	default:
		// Decodable type but unreadable pixels: hand over the bytes as fetched.
		slog.Warn("image re-encode failed, keeping original bytes", "id", thumb.ID, "error", err)
		contentType = imaging.DetectType(data)
	}

	url, err := s.blobs.Put(ctx, filename, contentType, data)
	if err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	metrics.RecordBlob(s.blobs.Name(), len(data))
	return url, nil
}

// fetch downloads url, failing on non-2xx responses and oversized bodies.
func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch request: %w", err)
	}
	if err := checkScheme(req.URL); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxFetchBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxFetchBytes)
	}
	return data, nil
}
