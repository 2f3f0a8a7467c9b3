package mocks

import (
	"context"

	"frontdesk/shared/cache"
)

type cacheImpl struct {
}

// Save implements cache.RedisCache.
func (c *cacheImpl) Save(_ context.Context, _ string, _ any, _ int) error {
	return nil
}

// Get implements cache.RedisCache. It always misses so service tests
// exercise the repository path.
func (c *cacheImpl) Get(_ context.Context, _ string, _ any) error {
	return cache.Nil
}

// Delete implements cache.RedisCache.
func (c *cacheImpl) Delete(_ context.Context, _ string) error {
	return nil
}

// Clear implements cache.RedisCache.
func (c *cacheImpl) Clear(_ context.Context, _ string) error {
	return nil
}

func NewCache() cache.RedisCache {
	return &cacheImpl{}
}
