package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
)

// ActivityRepository journals requests in the activity table.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository with the given database connection
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ActivityFilter narrows [ActivityRepository.List]. Zero values match everything.
type ActivityFilter struct {
	CollectionID string
	Kind         models.ActivityKind
	FailedOnly   bool
	Limit        int
}

// Record inserts a, assigning an id and timestamp when missing.
func (r *ActivityRepository) Record(ctx context.Context, a models.Activity) error {
	if a.Kind == "" {
		return fmt.Errorf("%w: activity kind is required", shared.ErrInvalidInput)
	}
	if a.ID == "" {
		a.ID = shared.GenerateID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activity (id, kind, collection_id, album_id, detail, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		string(a.Kind),
		a.CollectionID,
		a.AlbumID,
		a.Detail,
		a.Success,
		a.Error,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// Get retrieves one entry by id.
func (r *ActivityRepository) Get(ctx context.Context, id string) (*models.Activity, error) {
	query := `
		SELECT id, kind, collection_id, album_id, detail, success, error, created_at
		FROM activity
		WHERE id = ?
	`

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrapNotFound("activity", id)
	}
	return a, err
}

// List returns matching entries, newest first.
func (r *ActivityRepository) List(ctx context.Context, f ActivityFilter) ([]models.Activity, error) {
	var (
		where []string
		args  []any
	)
	if f.CollectionID != "" {
		where = append(where, "collection_id = ?")
		args = append(args, f.CollectionID)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.FailedOnly {
		where = append(where, "success = 0")
	}

	query := `SELECT id, kind, collection_id, album_id, detail, success, error, created_at FROM activity`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	entries := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}
	return entries, nil
}

// Count returns the number of journaled entries.
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return n, nil
}

// Clear deletes entries created before cutoff; a zero cutoff deletes everything.
func (r *ActivityRepository) Clear(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if cutoff.IsZero() {
		result, err = r.db.ExecContext(ctx, `DELETE FROM activity`)
	} else {
		result, err = r.db.ExecContext(ctx, `DELETE FROM activity WHERE created_at < ?`, cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear activity: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func scanActivity(s rowScanner) (*models.Activity, error) {
	var (
		a    models.Activity
		kind string
	)
	err := s.Scan(&a.ID, &kind, &a.CollectionID, &a.AlbumID, &a.Detail, &a.Success, &a.Error, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}
	a.Kind = models.ActivityKind(kind)
	return &a, nil
}
