package mysql

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
  id            CHAR(36) PRIMARY KEY,
  created_at    DATETIME NOT NULL,
  label         VARCHAR(255) NOT NULL DEFAULT '',
  image_data    LONGTEXT NOT NULL,
  image_url     TEXT,
  analysis_json JSON NULL,
  KEY idx_created_at (created_at)
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save inserts or updates an entry
func (r *TimelineRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO timeline_entries
  (id, created_at, label, image_data, image_url, analysis_json)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  label=VALUES(label), image_data=VALUES(image_data), image_url=VALUES(image_url), analysis_json=VALUES(analysis_json);
`
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	analysisJSON, err := marshalAnalysis(e.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, q, e.ID, createdAt, e.Label, e.ImageData, e.ImageURL, analysisJSON)
	return err
}

// Get returns one entry by id
func (r *TimelineRepository) Get(ctx context.Context, id domain.EntryID) (*domain.Entry, error) {
	const q = `
SELECT id, created_at, label, image_data, image_url, analysis_json
FROM timeline_entries WHERE id=?;`
	return scanEntry(r.db.QueryRowContext(ctx, q, id))
}

// Latest returns the newest entries ordered by created_at desc
func (r *TimelineRepository) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	const q = `
SELECT id, created_at, label, image_data, image_url, analysis_json
FROM timeline_entries
ORDER BY created_at DESC, id DESC
LIMIT ?;`
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM timeline_entries WHERE id=?;`, id)
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

func marshalAnalysis(a *analysisdomain.SkinAnalysis) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
