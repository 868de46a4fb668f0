package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by New.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendDisabled = "disabled"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string
	Dir     string // file backend
	MaxSize int    // memory backend
	Redis   RedisOptions
	Mongo   MongoOptions
}

// New creates a cache for cfg.Backend.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(cfg.Dir)
	case BackendMemory:
		return NewMemoryCache(cfg.MaxSize), nil
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	case BackendDisabled:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: file, memory, redis, mongo, disabled)", cfg.Backend)
	}
}
