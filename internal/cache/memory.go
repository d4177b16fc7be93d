package cache

import (
	"context"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore 进程内缓存, 条目过期后自动淘汰
type MemoryStore struct {
	lru *expirable.LRU[models.Platform, models.PlatformResult]
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = len(models.AllPlatforms)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		lru: expirable.NewLRU[models.Platform, models.PlatformResult](size, nil, ttl),
	}
}

// Get 读取缓存, 返回副本
func (m *MemoryStore) Get(_ context.Context, platform models.Platform) (models.PlatformResult, bool) {
	result, ok := m.lru.Get(platform)
	if !ok {
		return models.PlatformResult{}, false
	}
	return result.Clone(), true
}

// Set 写入缓存副本
func (m *MemoryStore) Set(_ context.Context, result models.PlatformResult) {
	m.lru.Add(result.Platform, result.Clone())
}

// Purge 清空缓存
func (m *MemoryStore) Purge(_ context.Context) {
	m.lru.Purge()
}

// Len 当前缓存条目数
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}
