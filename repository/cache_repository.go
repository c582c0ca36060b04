package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// CacheKey derives a stable key from the JSON form of a request.
func CacheKey(prefix string, request any) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(payload)), nil
}
