package pages

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheChapters is the number of extracted chapters kept in memory.
const DefaultCacheChapters = 8

// prefetchLimit bounds background chapter loads across all Prefetch calls.
const prefetchLimit = 2

// Source supplies the raw content documents of a book's reading order.
// *epub.Book implements it.
type Source interface {
	Len() int
	ItemID(i int) string
	ReadItem(i int) ([]byte, error)
}

// Chapter is the extracted text of one spine item.
type Chapter struct {
	Index  int
	ID     string
	Blocks []Block
	Bytes  int
}

// Loader reads and extracts chapters, caching the most recently used ones.
// Concurrent requests for the same chapter share one load.
// It is safe for concurrent use.
type Loader struct {
	src    Source
	logger *slog.Logger

	mu    sync.Mutex
	cache *lru.Cache

	group singleflight.Group

	// Held by each background load for its whole duration.
	background *semaphore.Weighted
}

// NewLoader creates a loader caching up to capacity chapters.
func NewLoader(src Source, capacity int, logger *slog.Logger) *Loader {
	if capacity < 1 {
		capacity = DefaultCacheChapters
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		src:    src,
		logger: logger,
		cache:  lru.New(capacity),

		background: semaphore.NewWeighted(prefetchLimit),
	}
	l.cache.OnEvicted = func(key lru.Key, _ any) {
		l.logger.Debug("chapter evicted", "index", key)
	}
	return l
}

// Len returns the number of chapters.
func (l *Loader) Len() int {
	return l.src.Len()
}

// Cached reports whether chapter i is in memory.
func (l *Loader) Cached(i int) bool {
	_, ok := l.cached(i)
	return ok
}

func (l *Loader) cached(i int) (*Chapter, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.cache.Get(i)
	if !ok {
		return nil, false
	}
	return v.(*Chapter), true
}

// Chapter returns chapter i, loading it if needed.
func (l *Loader) Chapter(ctx context.Context, i int) (*Chapter, error) {
	if i < 0 || i >= l.src.Len() {
		return nil, fmt.Errorf("chapter %d out of range [0, %d)", i, l.src.Len())
	}
	if ch, ok := l.cached(i); ok {
		return ch, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := l.group.DoChan(strconv.Itoa(i), func() (any, error) {
		return l.load(i)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Chapter), nil
	}
}

func (l *Loader) load(i int) (*Chapter, error) {
	if ch, ok := l.cached(i); ok {
		return ch, nil
	}

	data, err := l.src.ReadItem(i)
	if err != nil {
		return nil, fmt.Errorf("load chapter %d: %w", i, err)
	}
	blocks, err := ExtractText(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load chapter %d: %w", i, err)
	}

	ch := &Chapter{
		Index:  i,
		ID:     l.src.ItemID(i),
		Blocks: blocks,
		Bytes:  len(data),
	}

	l.mu.Lock()
	l.cache.Add(i, ch)
	l.mu.Unlock()

	l.logger.Debug("chapter loaded", "index", i, "id", ch.ID, "blocks", len(blocks))
	return ch, nil
}

// Prefetch loads the given chapters in the background of the caller,
// skipping indices out of range or already cached. At most prefetchLimit
// loads run at once for the whole Loader, however many Prefetch calls
// overlap. A failing chapter does not stop the others; each failure is
// logged and the first one is returned.
func (l *Loader) Prefetch(ctx context.Context, indices ...int) error {
	var g errgroup.Group
	for _, i := range indices {
		if i < 0 || i >= l.src.Len() || l.Cached(i) {
			continue
		}
		g.Go(func() error {
			if err := l.background.Acquire(ctx, 1); err != nil {
				return err
			}
			defer l.background.Release(1)

			if l.Cached(i) {
				return nil
			}
			_, err := l.Chapter(ctx, i)
			if err != nil && ctx.Err() == nil {
				l.logger.Debug("prefetch failed", "index", i, "error", err)
			}
			return err
		})
	}
	return g.Wait()
}
