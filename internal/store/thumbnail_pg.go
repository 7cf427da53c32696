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

	"thumbcraft/internal/models"
)

// PostgresThumbnailStore handles all thumbnail-related database operations.
// Ids come from a BIGSERIAL sequence.
type PostgresThumbnailStore struct {
	db *sql.DB
}

// NewPostgresThumbnailStore creates a new PostgresThumbnailStore with the
// given database connection.
func NewPostgresThumbnailStore(db *sql.DB) *PostgresThumbnailStore {
	return &PostgresThumbnailStore{db: db}
}

// thumbnailColumns lists the columns selected in thumbnail queries.
const thumbnailColumns = `id, title, description, style, color_scheme, image_url,
	format, image_size, text_effects, text_position, is_ai_generated,
	live_generated, width, height, created_at`

// scanThumbnail scans a thumbnail row from the result set.
func scanThumbnail(scanner interface{ Scan(...any) error }) (*models.Thumbnail, error) {
	var t models.Thumbnail
	var effects, position []byte
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Description, &t.Style, &t.ColorScheme, &t.ImageURL,
		&t.Format, &t.ImageSize, &effects, &position, &t.IsAIGenerated,
		&t.LiveGenerated, &t.Dimensions.Width, &t.Dimensions.Height, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(effects, &t.TextEffects); err != nil {
		return nil, fmt.Errorf("decode text_effects: %w", err)
	}
	if err := json.Unmarshal(position, &t.TextPosition); err != nil {
		return nil, fmt.Errorf("decode text_position: %w", err)
	}
	return &t, nil
}

// encodeJSONColumns marshals the JSONB columns of t.
func encodeJSONColumns(t *models.Thumbnail) (effects, position []byte, err error) {
	effects, err = json.Marshal(t.TextEffects)
	if err != nil {
		return nil, nil, fmt.Errorf("encode text_effects: %w", err)
	}
	position, err = json.Marshal(t.TextPosition)
	if err != nil {
		return nil, nil, fmt.Errorf("encode text_position: %w", err)
	}
	return effects, position, nil
}

// Create inserts a new thumbnail and returns it with the generated ID.
func (s *PostgresThumbnailStore) Create(ctx context.Context, t *models.Thumbnail) (*models.Thumbnail, error) {
	effects, position, err := encodeJSONColumns(t)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO thumbnails (title, description, style, color_scheme, image_url,
			format, image_size, text_effects, text_position, is_ai_generated,
			live_generated, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+thumbnailColumns,
		t.Title, t.Description, t.Style, t.ColorScheme, t.ImageURL,
		string(t.Format), t.ImageSize, effects, position, t.IsAIGenerated,
		t.LiveGenerated, t.Dimensions.Width, t.Dimensions.Height, t.CreatedAt,
	)
	created, err := scanThumbnail(row)
	if err != nil {
		return nil, fmt.Errorf("create thumbnail: %w", err)
	}
	return created, nil
}

// List returns all thumbnails, newest first.
func (s *PostgresThumbnailStore) List(ctx context.Context) ([]models.Thumbnail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+thumbnailColumns+`
		FROM thumbnails
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list thumbnails: %w", err)
	}
	defer rows.Close()

	items := []models.Thumbnail{}
	for rows.Next() {
		t, err := scanThumbnail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thumbnail: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a single thumbnail by id.
func (s *PostgresThumbnailStore) FindByID(ctx context.Context, id int64) (*models.Thumbnail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+thumbnailColumns+` FROM thumbnails WHERE id = $1`, id)
	t, err := scanThumbnail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, thumbnailNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find thumbnail by id: %w", err)
	}
	return t, nil
}

// Update reads the record, applies the patch and writes every mutable
// column back inside one transaction.
func (s *PostgresThumbnailStore) Update(ctx context.Context, id int64, patch models.ThumbnailPatch) (*models.Thumbnail, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update thumbnail: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+thumbnailColumns+` FROM thumbnails WHERE id = $1 FOR UPDATE`, id)
	t, err := scanThumbnail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, thumbnailNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load thumbnail for update: %w", err)
	}

	patch.Apply(t)
	effects, position, err := encodeJSONColumns(t)
	if err != nil {
		return nil, err
	}

	row = tx.QueryRowContext(ctx, `
		UPDATE thumbnails
		SET title = $1, description = $2, style = $3, color_scheme = $4,
			image_url = $5, format = $6, text_effects = $7, text_position = $8
		WHERE id = $9
		RETURNING `+thumbnailColumns,
		t.Title, t.Description, t.Style, t.ColorScheme,
		t.ImageURL, string(t.Format), effects, position, id,
	)
	updated, err := scanThumbnail(row)
	if err != nil {
		return nil, fmt.Errorf("update thumbnail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update thumbnail: %w", err)
	}
	return updated, nil
}

// Delete removes a thumbnail and returns the deleted row.
func (s *PostgresThumbnailStore) Delete(ctx context.Context, id int64) (*models.Thumbnail, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM thumbnails WHERE id = $1
		RETURNING `+thumbnailColumns, id)
	t, err := scanThumbnail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, thumbnailNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("delete thumbnail: %w", err)
	}
	return t, nil
}
