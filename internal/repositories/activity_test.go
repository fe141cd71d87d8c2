package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/desertthunder/albumctl/internal/tasks"
)

var _ tasks.ActivityRecorder = (*ActivityRepository)(nil)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Record And Get", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))

		a := models.Activity{ID: "fixed", Kind: models.ActivityRemove, CollectionID: "c1", AlbumID: "a1", Detail: "Blue", Success: true}
		if err := repo.Record(ctx, a); err != nil {
			t.Fatalf("failed to record activity: %v", err)
		}

		got, err := repo.Get(ctx, "fixed")
		if err != nil {
			t.Fatalf("failed to get activity: %v", err)
		}
		if got.Kind != models.ActivityRemove || got.AlbumID != "a1" || !got.Success {
			t.Errorf("unexpected activity %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected timestamp to be set")
		}
	})

	t.Run("Generates ID", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))
		if err := repo.Record(ctx, models.Activity{Kind: models.ActivityPlay}); err != nil {
			t.Fatalf("failed to record activity: %v", err)
		}

		entries, err := repo.List(ctx, ActivityFilter{})
		if err != nil {
			t.Fatalf("failed to list activity: %v", err)
		}
		if len(entries) != 1 || entries[0].ID == "" {
			t.Errorf("expected generated id, got %+v", entries)
		}
	})

	t.Run("Missing Kind", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))
		if err := repo.Record(ctx, models.Activity{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))
		if _, err := repo.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))
		base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		seed := []models.Activity{
			{Kind: models.ActivityRemove, CollectionID: "c1", Success: true, CreatedAt: base},
			{Kind: models.ActivityReorder, CollectionID: "c1", Success: false, Error: "boom", CreatedAt: base.Add(time.Minute)},
			{Kind: models.ActivityPlay, CollectionID: "c2", Success: true, CreatedAt: base.Add(2 * time.Minute)},
		}
		for _, a := range seed {
			if err := repo.Record(ctx, a); err != nil {
				t.Fatalf("failed to seed: %v", err)
			}
		}

		tests := []struct {
			name   string
			filter ActivityFilter
			kinds  []models.ActivityKind
		}{
			{"All Newest First", ActivityFilter{}, []models.ActivityKind{models.ActivityPlay, models.ActivityReorder, models.ActivityRemove}},
			{"By Collection", ActivityFilter{CollectionID: "c1"}, []models.ActivityKind{models.ActivityReorder, models.ActivityRemove}},
			{"By Kind", ActivityFilter{Kind: models.ActivityPlay}, []models.ActivityKind{models.ActivityPlay}},
			{"Failed Only", ActivityFilter{FailedOnly: true}, []models.ActivityKind{models.ActivityReorder}},
			{"Limit", ActivityFilter{Limit: 1}, []models.ActivityKind{models.ActivityPlay}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				entries, err := repo.List(ctx, tt.filter)
				if err != nil {
					t.Fatalf("failed to list activity: %v", err)
				}
				if len(entries) != len(tt.kinds) {
					t.Fatalf("expected %d entries, got %d", len(tt.kinds), len(entries))
				}
				for i, k := range tt.kinds {
					if entries[i].Kind != k {
						t.Errorf("entry %d: expected %s, got %s", i, k, entries[i].Kind)
					}
				}
			})
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewActivityRepository(setupTestDB(t))
		old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		repo.Record(ctx, models.Activity{Kind: models.ActivitySearch, CreatedAt: old})
		repo.Record(ctx, models.Activity{Kind: models.ActivitySearch})

		n, err := repo.Clear(ctx, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 deleted, got %d", n)
		}

		if _, err := repo.Clear(ctx, time.Time{}); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if count, _ := repo.Count(ctx); count != 0 {
			t.Errorf("expected empty journal, got %d", count)
		}
	})
}
