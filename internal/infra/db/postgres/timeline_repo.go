package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	analysisdomain "github.com/bintangp/dermalens/internal/domain/analysis"
	domain "github.com/bintangp/dermalens/internal/domain/timeline"
)

type TimelineRepository struct {
	db *sql.DB
}

func NewTimelineRepository(db *sql.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// EnsureSchema creates the timeline table if it does not exist yet
func (r *TimelineRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS timeline_entries (
  id            UUID PRIMARY KEY,
  created_at    TIMESTAMPTZ NOT NULL,
  label         TEXT NOT NULL DEFAULT '',
  image_data    TEXT NOT NULL,
  image_url     TEXT,
  analysis_json JSONB
);
CREATE INDEX IF NOT EXISTS idx_timeline_created_at ON timeline_entries (created_at);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save inserts or updates an entry
func (r *TimelineRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO timeline_entries
  (id, created_at, label, image_data, image_url, analysis_json)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  label = EXCLUDED.label,
  image_data = EXCLUDED.image_data,
  image_url = EXCLUDED.image_url,
  analysis_json = EXCLUDED.analysis_json;`

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var analysisJSON any
	if e.Analysis != nil {
		b, err := json.Marshal(e.Analysis)
		if err != nil {
			return err
		}
		analysisJSON = string(b)
	}

	_, err := r.db.ExecContext(ctx, q, e.ID, createdAt, e.Label, e.ImageData, e.ImageURL, analysisJSON)
	return err
}

// Get returns one entry by id
func (r *TimelineRepository) Get(ctx context.Context, id domain.EntryID) (*domain.Entry, error) {
	const q = `
SELECT id, created_at, label, image_data, image_url, analysis_json
FROM timeline_entries WHERE id=$1;`
	return scanEntry(r.db.QueryRowContext(ctx, q, id))
}

// Latest returns the newest entries ordered by created_at desc
func (r *TimelineRepository) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	const q = `
SELECT id, created_at, label, image_data, image_url, analysis_json
FROM timeline_entries
ORDER BY created_at DESC, id DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes an entry
func (r *TimelineRepository) Delete(ctx context.Context, id domain.EntryID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM timeline_entries WHERE id=$1;`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var e domain.Entry
	var created time.Time
	var imageURL, analysisJSON sql.NullString
	if err := row.Scan(&e.ID, &created, &e.Label, &e.ImageData, &imageURL, &analysisJSON); err != nil {
		return nil, err
	}
	e.CreatedAt = created
	e.ImageURL = imageURL.String
	if analysisJSON.Valid && analysisJSON.String != "" {
		var a analysisdomain.SkinAnalysis
		if err := json.Unmarshal([]byte(analysisJSON.String), &a); err != nil {
			return nil, err
		}
		e.Analysis = &a
	}
	return &e, nil
}
