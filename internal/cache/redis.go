package cache

import (
	"context"
	"errors"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix 默认Redis键前缀
const DefaultRedisPrefix = "trendboard:platform:"

// RedisStore 基于Redis的共享缓存, 多个实例可共用一份结果
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore 创建Redis缓存
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(platform models.Platform) string {
	return r.prefix + string(platform)
}

// Get 读取缓存
func (r *RedisStore) Get(ctx context.Context, platform models.Platform) (models.PlatformResult, bool) {
	data, err := r.client.Get(ctx, r.key(platform)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.Warnf("读取Redis缓存失败 [%s]: %v", platform, err)
		}
		return models.PlatformResult{}, false
	}

	result, err := models.PlatformResultFromJSON(data)
	if err != nil {
		utils.Warnf("解析Redis缓存失败 [%s]: %v", platform, err)
		return models.PlatformResult{}, false
	}
	return result, true
}

// Set 写入缓存, 有效期为ttl
func (r *RedisStore) Set(ctx context.Context, result models.PlatformResult) {
	data, err := result.ToJSON()
	if err != nil {
		utils.Warnf("序列化缓存失败 [%s]: %v", result.Platform, err)
		return
	}
	if err := r.client.Set(ctx, r.key(result.Platform), data, r.ttl).Err(); err != nil {
		utils.Warnf("写入Redis缓存失败 [%s]: %v", result.Platform, err)
	}
}

// Purge 删除前缀下的所有键
func (r *RedisStore) Purge(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		utils.Warnf("扫描Redis缓存失败: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		utils.Warnf("清空Redis缓存失败: %v", err)
	}
}

// Close 关闭Redis连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}
