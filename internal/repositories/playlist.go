package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ListOptions filters [PlaylistHistoryRepository.List]. Zero values mean no filter.
type ListOptions struct {
	UserID string
	Limit  int
}

// PlaylistHistoryRepository persists [models.PlaylistRecord] rows.
type PlaylistHistoryRepository struct {
	db *sql.DB
}

// NewPlaylistHistoryRepository creates a new PlaylistHistoryRepository with the given database connection
func NewPlaylistHistoryRepository(db *sql.DB) *PlaylistHistoryRepository {
	return &PlaylistHistoryRepository{db: db}
}

// Create inserts a record, assigning an ID and creation time when they are unset.
func (r *PlaylistHistoryRepository) Create(ctx context.Context, record *models.PlaylistRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlist_history (id, user_id, playlist_id, name, description, url, track_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.PlaylistID,
		record.Name,
		record.Description,
		record.URL,
		record.TrackCount,
		record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist history: %w", err)
	}

	return nil
}

// Get retrieves a record by ID
func (r *PlaylistHistoryRepository) Get(ctx context.Context, id string) (*models.PlaylistRecord, error) {
	query := `
		SELECT id, user_id, playlist_id, name, description, url, track_count, created_at
		FROM playlist_history
		WHERE id = ?
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist history %s: %w", id, ErrNotFound)
	}
	return record, err
}

// List returns records newest first.
func (r *PlaylistHistoryRepository) List(ctx context.Context, opts ListOptions) ([]*models.PlaylistRecord, error) {
	query := `
		SELECT id, user_id, playlist_id, name, description, url, track_count, created_at
		FROM playlist_history
	`

	where, args := opts.where()
	query += where + " ORDER BY created_at DESC, rowid DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist history: %w", err)
	}
	defer rows.Close()

	records := []*models.PlaylistRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records matching the user filter. Limit is ignored.
func (r *PlaylistHistoryRepository) Count(ctx context.Context, opts ListOptions) (int, error) {
	where, args := opts.where()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM playlist_history"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count playlist history: %w", err)
	}
	return n, nil
}

func (o ListOptions) where() (string, []any) {
	if o.UserID == "" {
		return "", nil
	}
	return " WHERE user_id = ?", []any{o.UserID}
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row from either [sql.Row] or [sql.Rows].
func scanRecord(row scanner) (*models.PlaylistRecord, error) {
	var record models.PlaylistRecord

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.PlaylistID,
		&record.Name,
		&record.Description,
		&record.URL,
		&record.TrackCount,
		&record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist history: %w", err)
	}

	return &record, nil
}
