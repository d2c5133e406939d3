// Package store defines the key-value snapshot store the persistence layer
// writes to, plus a namespacing wrapper. Backends live in subpackages.
package store

import (
	"context"
	"strings"
	"time"
)

// KV is a minimal byte-oriented key-value store, the server-side stand-in
// for a browser's local storage.
type KV interface {
	// Get returns the value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Sweeper is implemented by backends without native expiry.
type Sweeper interface {
	// Sweep removes entries last read or written before olderThan and returns how
	// many were removed.
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
}

// Scope returns a view of kv where every key is prefixed with namespace
// and a colon. An empty namespace returns kv unchanged.
func Scope(kv KV, namespace string) KV {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return kv
	}
	return &scoped{kv: kv, prefix: namespace + ":"}
}

type scoped struct {
	kv     KV
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.kv.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.kv.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.kv.Delete(ctx, full...)
}
