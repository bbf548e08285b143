package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riverlabs/nexus/internal/domain"
)

// AnalysisTTL is how long a cached analysis stays valid.
const AnalysisTTL = time.Hour

// redisCmd is the slice of the go-redis API the cache uses. *redis.Client
// satisfies it.
type redisCmd interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// AnalysisCache memoizes analysis results in Redis, keyed by a stable hash
// of the input text. Every failure path is a cache miss: correctness never
// depends on Redis being reachable or the payload being well formed.
type AnalysisCache struct {
	rdb    redisCmd
	logger *zap.Logger
}

func NewAnalysisCache(rdb redisCmd, logger *zap.Logger) *AnalysisCache {
	return &AnalysisCache{rdb: rdb, logger: logger}
}

// Key returns the cache key for a given input text. FNV-64a keeps the key
// stable across processes and restarts.
func Key(text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("analysis:%016x", h.Sum64())
}

func (c *AnalysisCache) Get(ctx context.Context, text string) (*domain.AnalysisResult, bool) {
	raw, err := c.rdb.Get(ctx, Key(text)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("analysis cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("malformed cached analysis, treating as miss", zap.Error(err))
		return nil, false
	}

	c.logger.Debug("analysis cache hit")
	return &result, true
}

func (c *AnalysisCache) Put(ctx context.Context, text string, result *domain.AnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to marshal analysis for cache", zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, Key(text), payload, AnalysisTTL).Err(); err != nil {
		c.logger.Warn("analysis cache write failed", zap.Error(err))
		return
	}

	c.logger.Debug("cached analysis result")
}
