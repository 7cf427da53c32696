// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"slices"
	"sync"

	"thumbcraft/internal/models"
)

// ThumbnailRepository persists generated thumbnails. FindByID, Update and
// Delete return a *NotFoundError for unknown ids.
type ThumbnailRepository interface {
	// Create assigns a fresh id and stores t. The stored copy is returned.
	Create(ctx context.Context, t *models.Thumbnail) (*models.Thumbnail, error)
	// List returns every thumbnail, most recent first.
	List(ctx context.Context) ([]models.Thumbnail, error)
	FindByID(ctx context.Context, id int64) (*models.Thumbnail, error)
	// Update merges the patch into the stored record and returns the result.
	Update(ctx context.Context, id int64, patch models.ThumbnailPatch) (*models.Thumbnail, error)
	// Delete removes the record and returns its prior value.
	Delete(ctx context.Context, id int64) (*models.Thumbnail, error)
}

// MemoryThumbnailStore keeps thumbnails in process memory. Ids come from a
// counter that only grows, so an id is never reused even after deletes.
type MemoryThumbnailStore struct {
	mu     sync.RWMutex
	lastID int64
	items  []models.Thumbnail // most recent first
}

// NewMemoryThumbnailStore creates an empty store.
func NewMemoryThumbnailStore() *MemoryThumbnailStore {
	return &MemoryThumbnailStore{}
}

// Create inserts t at the front of the collection.
func (s *MemoryThumbnailStore) Create(_ context.Context, t *models.Thumbnail) (*models.Thumbnail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	rec := cloneThumbnail(*t)
	rec.ID = s.lastID
	s.items = slices.Insert(s.items, 0, rec)

	out := cloneThumbnail(rec)
	return &out, nil
}

// List returns copies of all records, most recent first.
func (s *MemoryThumbnailStore) List(_ context.Context) ([]models.Thumbnail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Thumbnail, len(s.items))
	for i, t := range s.items {
		out[i] = cloneThumbnail(t)
	}
	return out, nil
}

// FindByID returns a copy of the record with the given id.
func (s *MemoryThumbnailStore) FindByID(_ context.Context, id int64) (*models.Thumbnail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, thumbnailNotFound(id)
	}
	out := cloneThumbnail(s.items[i])
	return &out, nil
}

// Update applies patch to the record in place.
func (s *MemoryThumbnailStore) Update(_ context.Context, id int64, patch models.ThumbnailPatch) (*models.Thumbnail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, thumbnailNotFound(id)
	}
	patch.Apply(&s.items[i])
	s.items[i] = cloneThumbnail(s.items[i])

	out := cloneThumbnail(s.items[i])
	return &out, nil
}

// Delete removes exactly one record.
func (s *MemoryThumbnailStore) Delete(_ context.Context, id int64) (*models.Thumbnail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, thumbnailNotFound(id)
	}
	prior := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	return &prior, nil
}

func (s *MemoryThumbnailStore) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(t models.Thumbnail) bool { return t.ID == id })
}

// cloneThumbnail deep-copies the slice fields so callers cannot mutate
// stored state.
func cloneThumbnail(t models.Thumbnail) models.Thumbnail {
	t.TextEffects.Gradient.Colors = slices.Clone(t.TextEffects.Gradient.Colors)
	return t
}
