package repository

import "context"

// CacheRepository stores encoded calculation results by key.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}
