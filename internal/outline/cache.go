package outline

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/maypok86/otter"
)

// Cache memoizes a Backend's results by content hash. Files that are
// outlined repeatedly (watch mode, MCP sessions) are only parsed again when
// their bytes change. Results handed out by the cache are shared and must
// not be modified.
type Cache struct {
	backend Backend
	results otter.Cache[[sha256.Size]byte, *Result]
}

// NewCache wraps backend with a bounded cache holding up to capacity results.
func NewCache(backend Backend, capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}

	results, err := otter.MustBuilder[[sha256.Size]byte, *Result](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}

	return &Cache{
		backend: backend,
		results: results,
	}, nil
}

// ExtractFile reads path and returns the cached outline for its content,
// extracting it on a miss.
func (c *Cache) ExtractFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := c.Extract(ctx, source)
	if errors.Is(err, ErrNotText) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, err
}

// Extract returns the cached outline for source, extracting it on a miss.
// Failures are not cached.
func (c *Cache) Extract(ctx context.Context, source []byte) (*Result, error) {
	key := sha256.Sum256(source)
	if result, ok := c.results.Get(key); ok {
		return result, nil
	}

	result, err := c.backend.Extract(ctx, source)
	if err != nil {
		return nil, err
	}

	c.results.Set(key, result)
	return result, nil
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.results.Close()
}
