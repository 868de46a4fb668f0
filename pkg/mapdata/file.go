package mapdata

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/observability"
)

// FileStore keeps one JSON file per bundle in a directory.
type FileStore struct {
	dir    string
	logger *log.Logger
}

// NewFileStore creates the directory if needed. A nil logger selects
// log.Default().
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds key.
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, key.Filename())
}

func (s *FileStore) Load(ctx context.Context, key Key) (*Bundle, bool) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "mapdata")
		return nil, false
	}
	b, err := Decode(data)
	if err != nil {
		s.logger.Warn("ignoring corrupt cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "mapdata")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "mapdata")
	return b, true
}

func (s *FileStore) Save(ctx context.Context, key Key, b *Bundle) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := cache.WriteFileAtomic(s.Path(key), data, 0644); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "mapdata", len(data))
	return nil
}

func (s *FileStore) Clear(ctx context.Context) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.dir, e.Name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		key, ok := ParseKey(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Key: key, Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
}

var _ Store = (*FileStore)(nil)
