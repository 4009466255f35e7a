package markdown

import (
	"fmt"
	"io/fs"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultCacheSize = 1024

type cacheEntry struct {
	modTime time.Time
	size    int64
	meta    Meta
}

// Reader reads Meta from a docs filesystem, reusing results for files
// whose modification time and size are unchanged.
type Reader struct {
	docs   fs.FS
	cache  *lru.Cache[string, cacheEntry]
	logger *zap.Logger
}

// NewReader returns a Reader over docs. size <= 0 selects the default
// cache size.
func NewReader(docs fs.FS, size int, logger *zap.Logger) (*Reader, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}
	return &Reader{docs: docs, cache: cache, logger: logger}, nil
}

// Read returns the Meta of the document at name, a slash-separated path
// relative to the docs root.
func (r *Reader) Read(name string) (Meta, error) {
	info, err := fs.Stat(r.docs, name)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if cached, ok := r.cache.Get(name); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.meta, nil
	}

	src, err := fs.ReadFile(r.docs, name)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	meta, err := Parse(name, src)
	if err != nil {
		return Meta{}, err
	}
	r.logger.Debug("parsed document metadata", zap.String("file", name), zap.String("title", meta.Title))
	r.cache.Add(name, cacheEntry{modTime: info.ModTime(), size: info.Size(), meta: meta})
	return meta, nil
}

// Len reports how many documents are cached.
func (r *Reader) Len() int {
	return r.cache.Len()
}
