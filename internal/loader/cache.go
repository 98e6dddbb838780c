package loader

import (
	"context"
	"errors"
	"time"

	"spca-maps/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedStore keeps fetched blobs in Redis so a remote store is hit at most
// once per TTL. Redis failures are logged and fall through to the next store.
// A TTL of zero or less disables the cache.
type CachedStore struct {
	next   Store
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, prefix: "spca-maps:blob:"}
}

func (s *CachedStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if s.ttl <= 0 {
		return s.next.Fetch(ctx, name)
	}
	key := s.prefix + name

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		metrics.BlobFetched("redis", "hit")
		return data, nil
	case errors.Is(err, redis.Nil):
		metrics.BlobFetched("redis", "miss")
	default:
		metrics.BlobFetched("redis", "error")
		log.Warn().Err(err).Str("blob", name).Msg("blob cache read failed")
	}

	data, err = s.next.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("blob", name).Msg("blob cache write failed")
	}
	return data, nil
}
