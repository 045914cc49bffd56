// Package cache provides caching decorators backed by Redis.
package cache

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

const (
	// DefaultTTL is used when a non-positive TTL is given.
	DefaultTTL = time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "analysis"
)

// CachingAnalyzer decorates an Analyzer with Redis memoization.
// Identical (resume, job description, API key) triples return the stored result
// without calling the model again. Failed (sentinel) results are never stored.
type CachingAnalyzer struct {
	inner     usecase.Analyzer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingAnalyzer satisfies the Analyzer interface it decorates.
var _ usecase.Analyzer = (*CachingAnalyzer)(nil)

// NewCachingAnalyzer wraps inner with Redis caching.
// If rdb is nil the cache is bypassed. If ttl is 0 it defaults to one hour.
// If namespace is empty it uses "analysis".
func NewCachingAnalyzer(rdb *redis.Client, ttl time.Duration, inner usecase.Analyzer, namespace string) *CachingAnalyzer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingAnalyzer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Analyze returns a cached result when present, otherwise delegates and stores the result.
func (c *CachingAnalyzer) Analyze(ctx context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error) {
	if c.rdb == nil {
		return c.inner.Analyze(ctx, req)
	}

	key := c.cacheKey(req)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.AnalysisResult
		if err := json.Unmarshal(b, &out); err == nil {
			slog.Debug("analysis cache hit", "key", key)
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the model
	out, err := c.inner.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if out.IsFailed() {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to store analysis in cache", "error", err)
		}
	}

	return out, nil
}

// cacheKey hashes the request so that resumes and API keys are never stored in plain text.
// Each field is length-prefixed to keep distinct triples from colliding.
func (c *CachingAnalyzer) cacheKey(req entity.AnalysisRequest) string {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, s := range []string{req.ResumeText, req.JobDescription, req.APIKey} {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(s))
	}
	return c.namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
