// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"thumbcraft/internal/models"
	"thumbcraft/internal/store"
)

// LiveSessionHeader identifies the browser tab issuing live-mode requests.
const LiveSessionHeader = "X-Live-Session"

// maxSessionLen bounds the live session identifier.
const maxSessionLen = 128

// Generator is the part of generator.Service the thumbnail handlers use.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.Thumbnail, error)
	GenerateLive(ctx context.Context, session string, req models.GenerationRequest) (*models.Thumbnail, error)
	PrepareDownload(ctx context.Context, id int64, format models.ImageFormat) (*models.Download, error)
}

// Thumbnails groups the thumbnail HTTP handlers and their dependencies.
type Thumbnails struct {
	gen   Generator
	store store.ThumbnailRepository
}

// NewThumbnails creates a new Thumbnails handler group.
func NewThumbnails(gen Generator, repo store.ThumbnailRepository) *Thumbnails {
	return &Thumbnails{gen: gen, store: repo}
}

// List returns every stored thumbnail, most recent first.
func (h *Thumbnails) List(w http.ResponseWriter, r *http.Request) {
	thumbs, err := h.store.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if thumbs == nil {
		thumbs = []models.Thumbnail{}
	}
	writeJSON(w, http.StatusOK, thumbs)
}

// Create handles an explicit form submission. The result is persisted
// and returned with 201. A body asking for live mode is handled exactly
// like a request to Live, so it needs the session header too.
func (h *Thumbnails) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LiveMode {
		h.live(w, r, req)
		return
	}

	thumb, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, thumb)
}

// Live handles a debounced live-mode generation. Only the newest request
// of a session gets a result; older ones answer 409.
func (h *Thumbnails) Live(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.live(w, r, req)
}

func (h *Thumbnails) live(w http.ResponseWriter, r *http.Request, req models.GenerationRequest) {
	session := strings.TrimSpace(r.Header.Get(LiveSessionHeader))
	if session == "" || len(session) > maxSessionLen {
		writeError(w, http.StatusBadRequest, "A valid "+LiveSessionHeader+" header is required")
		return
	}

	thumb, err := h.gen.GenerateLive(r.Context(), session, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thumb)
}

// Get returns one thumbnail.
func (h *Thumbnails) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "thumbnail")
	if !ok {
		return
	}
	thumb, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thumb)
}

// Update applies a partial update to a stored thumbnail.
func (h *Thumbnails) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "thumbnail")
	if !ok {
		return
	}

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validatePatch(&req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	thumb, err := h.store.Update(r.Context(), id, req.ThumbnailPatch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thumb)
}

// Delete removes a thumbnail and returns the deleted record.
func (h *Thumbnails) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "thumbnail")
	if !ok {
		return
	}
	thumb, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thumb)
}

// Download prepares a thumbnail for saving. The format query parameter
// defaults to png.
func (h *Thumbnails) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "thumbnail")
	if !ok {
		return
	}

	format := models.FormatPNG
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, ok := models.ParseImageFormat(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": map[string]string{"format": "Format must be png or jpeg"},
			})
			return
		}
		format = f
	}

	dl, err := h.gen.PrepareDownload(r.Context(), id, format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dl)
}
