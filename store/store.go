// ABOUTME: Key-value storage abstraction for client session state
// ABOUTME: Fixed keys mirror the browser-storage contract of the EcoFinds frontend

package store

import (
	"time"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
)

// Well-known keys. Auth state always lives under these three; everything
// the session manager does assumes they are consistent with each other.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"

	// Extra per-session state
	KeyCart = "cart"
	KeyCSRF = "csrf_token"
)

// Store is a small string key-value store scoped to one principal
// (one browser session, or one CLI user). Writes are best-effort and
// never fail, matching browser localStorage semantics; a backend that
// loses a write just forces a re-login or a re-fetch.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(keys ...string)
	// Clear removes everything in this store's scope.
	Clear()
}

// MemoryStore scopes a shared TTL cache by key prefix.
type MemoryStore struct {
	cache  *cache.Cache
	prefix string
	ttl    time.Duration
}

// NewMemoryStore creates a store backed by the given cache under a prefix.
func NewMemoryStore(c *cache.Cache, prefix string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: c, prefix: prefix, ttl: ttl}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	val, ok := s.cache.Get(s.prefix + key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.cache.SetWithTTL(s.prefix+key, value, s.ttl)
}

func (s *MemoryStore) Delete(keys ...string) {
	for _, key := range keys {
		s.cache.Clear(s.prefix + key)
	}
}

func (s *MemoryStore) Clear() {
	s.cache.ClearPrefix(s.prefix)
}
