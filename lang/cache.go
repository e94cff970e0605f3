package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parsed expressions keyed by the hash of their source.
var globalCache sync.Map

// entry is one cached parse. Parsing happens at most once per entry even when
// many goroutines ask for the same source simultaneously.
type entry struct {
	once   sync.Once
	source string
	expr   *Expression
	err    error
}

// cacheKey returns the key for source. Collisions are detected by comparing
// the stored source text.
func cacheKey(source string) string {
	return strconv.FormatUint(xxh3.HashString(source), 36)
}

// lookup returns the parsed expression for source, consulting the cache when
// it is enabled.
func (o options) lookup(ctx context.Context, source string) (*Expression, error) {
	if !o.cache {
		return parse(ctx, source, o)
	}

	key := cacheKey(source)
	fresh := &entry{source: source}

	value, cacheHit := globalCache.LoadOrStore(key, fresh)

	ent, ok := value.(*entry)
	if !ok || ent.source != source {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.String("source_hash", key))

		return parse(ctx, source, o)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", key),
		slog.Bool("cache_hit", cacheHit))

	ent.once.Do(func() {
		ent.expr, ent.err = parse(ctx, source, o)
	})

	return ent.expr, ent.err
}

// ClearCache removes every cached expression.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}

// cached reports whether source currently has a cache entry.
func cached(source string) bool {
	_, ok := globalCache.Load(cacheKey(source))

	return ok
}
