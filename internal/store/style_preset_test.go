// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"thumbcraft/internal/database"
	"thumbcraft/internal/models"
)

var testPresets = []models.StylePreset{
	{ID: 2, Name: "Gaming", Preview: "https://p/2", Settings: models.PresetSettings{Font: "Orbitron", Effects: []string{"glow"}}},
	{ID: 1, Name: "Minimal", Preview: "https://p/1"},
}

func TestMemoryStylePresetStore(t *testing.T) {
	s := NewMemoryStylePresetStore(testPresets)
	ctx := context.Background()

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("List should be ordered by id: %+v", list)
	}

	p, err := s.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.Settings.Font != "Orbitron" {
		t.Errorf("font: got %q", p.Settings.Font)
	}

	p.Settings.Effects[0] = "mutated"
	again, _ := s.FindByID(ctx, 2)
	if again.Settings.Effects[0] != "glow" {
		t.Error("FindByID leaked internal state")
	}

	_, err = s.FindByID(ctx, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "style preset with id 99 not found" {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestPostgresStylePresetStore(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seeded := []models.StylePreset{
		{ID: 8001, Name: "Store Test", Preview: "https://p/8001", Settings: models.PresetSettings{Font: "Inter", Spacing: "tight", Effects: []string{"outline"}}},
	}
	if err := database.Seed(ctx, db, seeded); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM style_presets WHERE id = 8001") })

	s := NewPostgresStylePresetStore(db)
	p, err := s.FindByID(ctx, 8001)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.Name != "Store Test" || p.Settings.Spacing != "tight" || p.Settings.Effects[0] != "outline" {
		t.Errorf("round trip: %+v", p)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, item := range list {
		if item.ID == 8001 {
			found = true
		}
	}
	if !found {
		t.Error("seeded preset missing from List")
	}

	if _, err := s.FindByID(ctx, -1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
