package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Store caches extracted document text.
type Store interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Key derives the cache key for a document payload. params are the settings
// that change the extracted text, such as language, DPI and page segmentation.
func Key(prefix string, data []byte, params ...string) string {
	sum := sha256.Sum256(data)
	key := prefix + hex.EncodeToString(sum[:])
	if len(params) > 0 {
		key += ":" + strings.Join(params, ":")
	}
	return key
}

// Nop is a Store that never holds anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }

func (Nop) Close() error { return nil }
