package timeline

import "context"

// Repository port (persistence for timeline entries)
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id EntryID) (*Entry, error)
	Latest(ctx context.Context, limit int) ([]*Entry, error)
	Delete(ctx context.Context, id EntryID) error
}

// ArchiveStore port (object storage for original uploads)
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
