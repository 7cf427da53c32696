// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"thumbcraft/internal/models"
)

// StylePresetRepository serves the read-only style preset catalogue.
type StylePresetRepository interface {
	List(ctx context.Context) ([]models.StylePreset, error)
	FindByID(ctx context.Context, id int64) (*models.StylePreset, error)
}

// MemoryStylePresetStore serves presets from a fixed slice.
type MemoryStylePresetStore struct {
	presets []models.StylePreset
}

// NewMemoryStylePresetStore copies presets and orders them by id.
func NewMemoryStylePresetStore(presets []models.StylePreset) *MemoryStylePresetStore {
	p := slices.Clone(presets)
	slices.SortFunc(p, func(a, b models.StylePreset) int { return int(a.ID - b.ID) })
	return &MemoryStylePresetStore{presets: p}
}

func (s *MemoryStylePresetStore) List(_ context.Context) ([]models.StylePreset, error) {
	out := make([]models.StylePreset, len(s.presets))
	for i, p := range s.presets {
		out[i] = clonePreset(p)
	}
	return out, nil
}

func (s *MemoryStylePresetStore) FindByID(_ context.Context, id int64) (*models.StylePreset, error) {
	for _, p := range s.presets {
		if p.ID == id {
			out := clonePreset(p)
			return &out, nil
		}
	}
	return nil, presetNotFound(id)
}

func clonePreset(p models.StylePreset) models.StylePreset {
	p.Settings.Effects = slices.Clone(p.Settings.Effects)
	return p
}

// PostgresStylePresetStore reads presets from the style_presets table.
type PostgresStylePresetStore struct {
	db *sql.DB
}

// NewPostgresStylePresetStore creates a new PostgresStylePresetStore.
func NewPostgresStylePresetStore(db *sql.DB) *PostgresStylePresetStore {
	return &PostgresStylePresetStore{db: db}
}

const presetColumns = `id, name, preview, settings`

func scanPreset(scanner interface{ Scan(...any) error }) (*models.StylePreset, error) {
	var p models.StylePreset
	var settings []byte
	if err := scanner.Scan(&p.ID, &p.Name, &p.Preview, &settings); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settings, &p.Settings); err != nil {
		return nil, fmt.Errorf("decode preset settings: %w", err)
	}
	return &p, nil
}

// List returns every preset ordered by id.
func (s *PostgresStylePresetStore) List(ctx context.Context) ([]models.StylePreset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+presetColumns+` FROM style_presets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list style presets: %w", err)
	}
	defer rows.Close()

	presets := []models.StylePreset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan style preset: %w", err)
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// FindByID retrieves one preset.
func (s *PostgresStylePresetStore) FindByID(ctx context.Context, id int64) (*models.StylePreset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM style_presets WHERE id = $1`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, presetNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find style preset by id: %w", err)
	}
	return p, nil
}
