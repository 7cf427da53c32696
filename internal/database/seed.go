package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"thumbcraft/internal/models"
)

// Seed upserts the style preset catalogue into style_presets. Rows are
// keyed by id, so running it on every start keeps the table in line with
// the embedded catalogue.
func Seed(ctx context.Context, db *sql.DB, presets []models.StylePreset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, p := range presets {
		settings, err := json.Marshal(p.Settings)
		if err != nil {
			return fmt.Errorf("seed encode preset %d: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO style_presets (id, name, preview, settings)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, preview = EXCLUDED.preview, settings = EXCLUDED.settings
		`, p.ID, p.Name, p.Preview, settings)
		if err != nil {
			return fmt.Errorf("seed upsert preset %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("style presets seeded", "count", len(presets))
	return nil
}
