package mapdata

import (
	"context"
	"time"
)

// Store persists bundles by key.
type Store interface {
	// Load returns the bundle for key. A missing, corrupt or undecodable
	// entry is reported as a miss, never as an error.
	Load(ctx context.Context, key Key) (*Bundle, bool)

	// Save writes b under key, replacing any existing entry.
	Save(ctx context.Context, key Key, b *Bundle) error

	// Clear removes every bundle and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// List describes the stored bundles.
	List(ctx context.Context) ([]Entry, error)
}

// Entry describes one stored bundle.
type Entry struct {
	Key     Key
	Name    string
	Size    int64
	ModTime time.Time
}
