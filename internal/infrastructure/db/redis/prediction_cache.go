package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

const cacheTTL = time.Hour

// PredictionCache stores inference results in Redis, keyed by a digest of the
// normalized input text. The predictor is side-effect-free, so replaying a
// cached result is always safe.
// Key format: predict:<sha256(text)>
type PredictionCache struct {
	client *redis.Client
}

// NewPredictionCache wraps the given Redis client.
func NewPredictionCache(client *redis.Client) *PredictionCache {
	return &PredictionCache{client: client}
}

// Get returns the cached prediction for text, reporting whether one existed.
func (c *PredictionCache) Get(ctx context.Context, text string) (*domain.Prediction, bool, error) {
	raw, err := c.client.Get(ctx, c.key(text)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var p domain.Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &p, true, nil
}

// Set stores the prediction (expires after cacheTTL).
func (c *PredictionCache) Set(ctx context.Context, text string, p *domain.Prediction) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(text), raw, cacheTTL).Err()
}

func (c *PredictionCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "predict:" + hex.EncodeToString(sum[:])
}
