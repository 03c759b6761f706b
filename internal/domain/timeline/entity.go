package timeline

import (
	"time"

	"github.com/bintangp/dermalens/internal/domain/analysis"
)

// EntryID identifier type
type EntryID string

// Entry is one stored photo in a subject's timeline. ImageData holds the
// compressed data-URL payload; ImageURL points at the archived original.
type Entry struct {
	ID        EntryID                `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Label     string                 `json:"label,omitempty"`
	ImageData string                 `json:"image_data"`
	ImageURL  string                 `json:"image_url,omitempty"`
	Analysis  *analysis.SkinAnalysis `json:"analysis,omitempty"`
}
