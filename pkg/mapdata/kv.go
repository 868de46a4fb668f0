package mapdata

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/observability"
)

// KVPrefix namespaces bundles inside a shared cache backend.
const KVPrefix = "mapdata:"

// KVStore keeps bundles in a cache.Cache backend such as Redis or MongoDB.
// Bundles are stored without expiry.
type KVStore struct {
	kv     *cache.Prefixed
	logger *log.Logger
}

// NewKVStore wraps backend. Keys are namespaced with [KVPrefix].
func NewKVStore(backend cache.Cache, logger *log.Logger) *KVStore {
	if logger == nil {
		logger = log.Default()
	}
	return &KVStore{kv: cache.NewPrefixed(backend, KVPrefix), logger: logger}
}

func (s *KVStore) Load(ctx context.Context, key Key) (*Bundle, bool) {
	data, ok, err := s.kv.Get(ctx, key.String())
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !ok {
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

func (s *KVStore) Save(ctx context.Context, key Key, b *Bundle) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key.String(), data, cache.TTLForever); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "mapdata", len(data))
	return nil
}

// keys returns nil for backends that cannot enumerate, so Clear and List
// see an empty store.
func (s *KVStore) keys(ctx context.Context) ([]string, error) {
	return s.kv.Keys(ctx, filePrefix)
}

func (s *KVStore) Clear(ctx context.Context) (int, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if err := s.kv.Delete(ctx, k); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *KVStore) List(ctx context.Context) ([]Entry, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, k := range keys {
		key, ok := ParseKey(k)
		if !ok {
			continue
		}
		e := Entry{Key: key, Name: k}
		if data, hit, err := s.kv.Get(ctx, k); err == nil && hit {
			e.Size = int64(len(data))
			if b, err := Decode(data); err == nil {
				e.ModTime = b.CachedAt
			}
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

var _ Store = (*KVStore)(nil)
