package authgateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/badralotaibi/CS604-SHU/internal/usecase"
)

// VerdictCache is the cache surface the caching checker needs. The Redis
// adapter satisfies it.
type VerdictCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachingParentChecker remembers positive parent/child verdicts for a short
// TTL. Only positive answers are cached; denials and transport errors always
// go back to the auth service, so a newly granted relationship is visible
// immediately and a revoked one expires with the TTL.
type CachingParentChecker struct {
	next  usecase.ParentChecker
	cache VerdictCache
	ttl   time.Duration
}

// NewCachingParentChecker wraps next with a verdict cache.
func NewCachingParentChecker(next usecase.ParentChecker, cache VerdictCache, ttl time.Duration) *CachingParentChecker {
	return &CachingParentChecker{next: next, cache: cache, ttl: ttl}
}

// CheckParentFor implements usecase.ParentChecker.
func (c *CachingParentChecker) CheckParentFor(ctx context.Context, token, childEmail string) (bool, error) {
	key := verdictKey(token, childEmail)

	if val, err := c.cache.Get(ctx, key); err == nil && val == "ok" {
		return true, nil
	}

	ok, err := c.next.CheckParentFor(ctx, token, childEmail)
	if err != nil {
		return false, err
	}

	if ok {
		// Cache failures are not worth failing the request over.
		_ = c.cache.Set(ctx, key, "ok", c.ttl)
	}

	return ok, nil
}

// verdictKey hashes the token so raw credentials never land in Redis.
func verdictKey(token, childEmail string) string {
	sum := sha256.Sum256([]byte(token + "|" + childEmail))
	return hex.EncodeToString(sum[:])
}
