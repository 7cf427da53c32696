// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"thumbcraft/internal/cache"
)

// BlobSource looks up prepared download bytes by token. *cache.BlobCache
// satisfies it.
type BlobSource interface {
	Get(ctx context.Context, token string) (*cache.Blob, error)
}

// Downloads serves prepared download blobs.
type Downloads struct {
	blobs BlobSource
}

// NewDownloads creates a new Downloads handler group.
func NewDownloads(blobs BlobSource) *Downloads {
	return &Downloads{blobs: blobs}
}

// Serve streams a blob as an attachment.
func (d *Downloads) Serve(w http.ResponseWriter, r *http.Request) {
	blob, err := d.blobs.Get(r.Context(), chi.URLParam(r, "token"))
	if errors.Is(err, cache.ErrBlobNotFound) {
		writeError(w, http.StatusNotFound, "Download not found or expired")
		return
	}
	if err != nil {
		slog.Error("blob lookup failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Download temporarily unavailable")
		return
	}

	h := w.Header()
	h.Set("Content-Type", blob.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(blob.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Filename}))
	h.Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}
