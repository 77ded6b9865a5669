package cache

import (
	"time"
)

// submittedKeyPrefix namespaces submitted-code entries so they never
// collide with the per-source rate-limit keys.
const submittedKeyPrefix = "submitted:"

// SubmittedCache remembers which normalized codes were already accepted by
// the catalog in recent runs. It is a best-effort secondary filter on top
// of the catalog snapshot; a cache miss only means one extra POST that the
// catalog will reject as a duplicate.
type SubmittedCache struct {
	svc CacheService
	ttl time.Duration
}

// NewSubmittedCache creates a submitted-code cache on top of a CacheService.
func NewSubmittedCache(svc CacheService, ttl time.Duration) *SubmittedCache {
	return &SubmittedCache{
		svc: svc,
		ttl: ttl,
	}
}

// Has reports whether the code was submitted within the TTL window.
func (c *SubmittedCache) Has(code string) bool {
	if c == nil || c.svc == nil {
		return false
	}
	_, err := c.svc.Get(submittedKeyPrefix + code)
	return err == nil
}

// Mark records a code as submitted. Errors are swallowed; losing a cache
// entry is safe because the catalog rejects duplicates anyway.
func (c *SubmittedCache) Mark(code string) {
	if c == nil || c.svc == nil {
		return
	}
	_ = c.svc.Set(submittedKeyPrefix+code, []byte("1"), c.ttl)
}
