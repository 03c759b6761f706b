package timeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	analysisdomain "github.com/bintangp/dermalens/internal/domain/analysis"
	domain "github.com/bintangp/dermalens/internal/domain/timeline"
	"github.com/bintangp/dermalens/internal/infra/imageproc"
)

// Clock abstraction so the service is easy to test
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Analyzer is the slice of the analysis service the timeline needs.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, rawImage string) *analysisdomain.SkinAnalysis
	CompareProgression(ctx context.Context, imageBefore, imageAfter string) *analysisdomain.ComparisonResult
}

// Service implements use-cases for timeline entries.
type Service struct {
	Repo     domain.Repository
	Archive  domain.ArchiveStore
	Analyzer Analyzer
	Clock    Clock
	MaxWidth int     // zero falls back to imageproc.DefaultMaxWidth
	Quality  float64 // zero falls back to imageproc.DefaultQuality
}

// CreateEntryCommand for storing a new photo
type CreateEntryCommand struct {
	Image   string `json:"image"`
	Label   string `json:"label"`
	Analyze bool   `json:"analyze"`
}

// Create compresses and stores a new entry. Archiving the compressed payload
// is best-effort: a missing object store leaves ImageURL empty.
func (s *Service) Create(ctx context.Context, cmd CreateEntryCommand) (*domain.Entry, error) {
	if strings.TrimSpace(cmd.Image) == "" {
		return nil, fmt.Errorf("image is required")
	}

	maxWidth, quality := s.MaxWidth, s.Quality
	if maxWidth <= 0 {
		maxWidth = imageproc.DefaultMaxWidth
	}
	if quality <= 0 {
		quality = imageproc.DefaultQuality
	}

	e := &domain.Entry{
		ID:        domain.EntryID(uuid.NewString()),
		CreatedAt: s.Clock.Now(),
		Label:     cmd.Label,
		ImageData: imageproc.Compress(cmd.Image, maxWidth, quality),
	}

	if s.Archive != nil {
		if raw, err := decodePayload(e.ImageData); err == nil {
			key := fmt.Sprintf("timeline/%s.jpg", e.ID)
			if url, err := s.Archive.Put(ctx, key, raw, "image/jpeg"); err == nil {
				e.ImageURL = url
			}
		}
	}

	if cmd.Analyze && s.Analyzer != nil {
		e.Analysis = s.Analyzer.AnalyzeImage(ctx, e.ImageData)
	}

	if err := s.Repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns one entry by id
func (s *Service) Get(ctx context.Context, id domain.EntryID) (*domain.Entry, error) {
	return s.Repo.Get(ctx, id)
}

// Latest returns the newest entries, capped at limit
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.Latest(ctx, limit)
}

// Delete removes an entry
func (s *Service) Delete(ctx context.Context, id domain.EntryID) error {
	return s.Repo.Delete(ctx, id)
}

// Compare loads two stored entries and runs progression analysis on them.
// The earlier entry is always submitted first regardless of argument order.
func (s *Service) Compare(ctx context.Context, beforeID, afterID domain.EntryID) (*analysisdomain.ComparisonResult, error) {
	before, err := s.Repo.Get(ctx, beforeID)
	if err != nil {
		return nil, fmt.Errorf("load entry %s: %w", beforeID, err)
	}
	after, err := s.Repo.Get(ctx, afterID)
	if err != nil {
		return nil, fmt.Errorf("load entry %s: %w", afterID, err)
	}

	if after.CreatedAt.Before(before.CreatedAt) {
		before, after = after, before
	}
	return s.Analyzer.CompareProgression(ctx, before.ImageData, after.ImageData), nil
}

func decodePayload(s string) ([]byte, error) {
	if i := strings.Index(s, ","); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}
