package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/bdl/lang/ast"
)

// globalCache stores finished parses keyed by a hash of source and options.
var globalCache sync.Map

// state holds the outcome of parsing one source.
type state struct {
	once sync.Once
	root *ast.Root
	err  error
}

// hashOptions encodes the options that affect the parse result using gob and
// hashes them with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the source hash with the options hash.
func cacheKey(source string, o options) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(o), 36)
}

// parseCached parses source at most once per distinct source and options.
// Syntax errors are cached along with successful results; a parse cut short
// by cancellation is evicted so a later call parses again.
func parseCached(
	ctx context.Context,
	source string,
	o options,
) (*ast.Root, error) {
	key := cacheKey(source, o)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return parse(ctx, source, o)
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.root, entry.err = parse(ctx, source, o)
	})

	if isCanceled(entry.err) {
		globalCache.CompareAndDelete(key, entry)
	}

	return entry.root, entry.err
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ClearCache removes all cached parses.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
