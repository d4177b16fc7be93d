// Package cache 缓存各平台的抓取结果
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL 默认缓存有效期
const DefaultTTL = time.Hour

// Store 平台结果缓存
// 读写失败不向调用方报错, 统一视为未命中
type Store interface {
	Get(ctx context.Context, platform models.Platform) (models.PlatformResult, bool)
	Set(ctx context.Context, result models.PlatformResult)
	Purge(ctx context.Context)
}

// Options 缓存构建参数
type Options struct {
	Backend string // memory | redis
	TTL     time.Duration
	Size    int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// New 按后端类型创建缓存
// redis后端会先PING一次, 不可用时返回错误由调用方决定是否降级
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(opts.Size, opts.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("连接Redis失败 [%s]: %w", opts.RedisAddr, err)
		}
		return NewRedisStore(client, opts.Prefix(), opts.TTL), nil
	default:
		return nil, fmt.Errorf("未知的缓存后端: %s", opts.Backend)
	}
}

// Prefix 返回Redis键前缀
func (o Options) Prefix() string {
	if o.RedisPrefix == "" {
		return DefaultRedisPrefix
	}
	return o.RedisPrefix
}
