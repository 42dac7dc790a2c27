package localisation

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces localisation hashes in Redis.
const keyPrefix = "managewiki:l10n:"

// RedisStore implements Lookup over Redis hashes with a read-through
// in-process cache.
type RedisStore struct {
	rdb   *redis.Client
	cache *ttlcache.Cache[string, map[int]string]
}

// NewRedisStore creates a store caching each language table for ttl.
// Call Start to run cache expiry in the background and Stop on shutdown.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, map[int]string](ttl),
			ttlcache.WithDisableTouchOnHit[string, map[int]string](),
		),
	}
}

// Start runs the cache expiry loop. It blocks until Stop is called.
func (s *RedisStore) Start() {
	s.cache.Start()
}

// Stop ends the cache expiry loop.
func (s *RedisStore) Stop() {
	s.cache.Stop()
}

func tableKey(languageCode string) string {
	return keyPrefix + languageCode + ":namespaceNames"
}

// NamespaceNames returns a copy of the table for languageCode.
func (s *RedisStore) NamespaceNames(ctx context.Context, languageCode string) (map[int]string, error) {
	if item := s.cache.Get(languageCode); item != nil {
		return maps.Clone(item.Value()), nil
	}

	raw, err := s.rdb.HGetAll(ctx, tableKey(languageCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading namespace names for %s: %w", languageCode, err)
	}
	if len(raw) == 0 {
		return nil, unknownLanguage(languageCode)
	}

	names := make(map[int]string, len(raw))
	for field, name := range raw {
		id, err := strconv.Atoi(field)
		if err != nil {
			slog.Warn("skipping non-numeric namespace id in localisation table",
				slog.String("language", languageCode),
				slog.String("field", field),
			)
			continue
		}
		names[id] = name
	}

	s.cache.Set(languageCode, names, ttlcache.DefaultTTL)
	return maps.Clone(names), nil
}

// Put replaces the table for languageCode.
func (s *RedisStore) Put(ctx context.Context, languageCode string, names map[int]string) error {
	key := tableKey(languageCode)
	fields := make(map[string]any, len(names))
	for id, name := range names {
		fields[strconv.Itoa(id)] = name
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing namespace names for %s: %w", languageCode, err)
	}

	s.cache.Delete(languageCode)
	return nil
}
