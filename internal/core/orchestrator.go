package core

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/cache"
	"github.com/RecoveryAshes/trendboard/internal/crawlers"
	"github.com/RecoveryAshes/trendboard/internal/metrics"
	"github.com/RecoveryAshes/trendboard/internal/mock"
	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// MockGenerator 抓取失败时提供演示数据
type MockGenerator interface {
	Generate(platform models.Platform) []models.TrendRow
}

// ProgressFunc 每个平台完成时回调, 调用是串行的
type ProgressFunc func(result models.PlatformResult)

// DefaultComputeTimeout 单个平台后台抓取的上限, 微博最多连续三次请求
const DefaultComputeTimeout = 3 * models.MaxFetchTimeout

// Options 编排器配置
type Options struct {
	Network     models.NetworkConfig
	Cache       cache.Store
	Mock        MockGenerator
	Metrics     *metrics.Recorder // 可选
	Parallelism int               // 平台并发数, <=0 时为平台数量

	// 合并后的抓取与调用方的上下文分离, 只受此超时限制; <=0 时为 DefaultComputeTimeout
	ComputeTimeout time.Duration
}

// Orchestrator 热榜编排器
// 负责 跳过海外平台 → 查缓存 → 抓取解析 → 演示数据兜底 → 写缓存 的完整流程
type Orchestrator struct {
	sources     map[models.Platform]crawlers.Source
	order       []models.Platform
	network     models.NetworkConfig
	cache       cache.Store
	mock        MockGenerator
	metrics     *metrics.Recorder
	parallelism int
	timeout     time.Duration

	// 同一平台的并发计算合并为一次
	group singleflight.Group

	// 每次Refresh递增, 旧一代的计算结果不写入缓存
	generation atomic.Uint64

	now func() time.Time
}

// NewOrchestrator 创建编排器
// sources 的顺序即快照中平台的展示顺序
func NewOrchestrator(sources []crawlers.Source, opts Options) *Orchestrator {
	o := &Orchestrator{
		sources:     make(map[models.Platform]crawlers.Source, len(sources)),
		order:       make([]models.Platform, 0, len(sources)),
		network:     opts.Network,
		cache:       opts.Cache,
		mock:        opts.Mock,
		metrics:     opts.Metrics,
		parallelism: opts.Parallelism,
		timeout:     opts.ComputeTimeout,
		now:         time.Now,
	}
	for _, s := range sources {
		if _, dup := o.sources[s.Platform()]; dup {
			continue
		}
		o.sources[s.Platform()] = s
		o.order = append(o.order, s.Platform())
	}
	if o.parallelism <= 0 {
		o.parallelism = max(len(o.order), 1)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultComputeTimeout
	}
	if o.cache == nil {
		o.cache = cache.NewMemoryStore(len(o.order), cache.DefaultTTL)
	}
	if o.mock == nil {
		o.mock = mock.NewGenerator(uint64(time.Now().UnixNano()))
	}
	return o
}

// Platforms 返回编排器管理的平台
func (o *Orchestrator) Platforms() []models.Platform {
	return append([]models.Platform(nil), o.order...)
}

// Network 返回当前网络配置
func (o *Orchestrator) Network() models.NetworkConfig {
	return o.network
}

// Build 获取所有平台的热榜快照, 命中缓存的平台不发起请求
func (o *Orchestrator) Build(ctx context.Context, progress ProgressFunc) (*models.Aggregate, error) {
	return o.BuildPlatforms(ctx, o.order, progress)
}

// Refresh 清空缓存后重新获取
func (o *Orchestrator) Refresh(ctx context.Context, progress ProgressFunc) (*models.Aggregate, error) {
	return o.RefreshPlatforms(ctx, o.order, progress)
}

// RefreshPlatforms 清空缓存后重新获取指定平台
// 缓存整体清空, 未指定的平台下次访问时重新抓取
func (o *Orchestrator) RefreshPlatforms(ctx context.Context, platforms []models.Platform, progress ProgressFunc) (*models.Aggregate, error) {
	gen := o.generation.Add(1)
	o.cache.Purge(ctx)
	utils.Infof("🔄 缓存已清空 (第%d代)", gen)
	return o.BuildPlatforms(ctx, platforms, progress)
}

// BuildPlatforms 获取指定平台的热榜快照
// 所有平台完成后才生成快照; 上下文取消时返回错误
func (o *Orchestrator) BuildPlatforms(ctx context.Context, platforms []models.Platform, progress ProgressFunc) (*models.Aggregate, error) {
	for _, p := range platforms {
		if _, ok := o.sources[p]; !ok {
			return nil, fmt.Errorf("未配置数据源的平台: %s", p)
		}
	}

	start := o.now()
	results := make([]models.PlatformResult, len(platforms))

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(o.parallelism)

	for i, p := range platforms {
		g.Go(func() error {
			result := o.Collect(ctx, p)
			results[i] = result
			if progress != nil {
				mu.Lock()
				progress(result)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("刷新被取消: %w", err)
	}

	agg := models.NewAggregate(platforms, results)
	elapsed := o.now().Sub(start)
	NewCycleSummary(agg, elapsed).Log()
	if o.metrics != nil {
		o.metrics.ObserveBuild(elapsed, o.now())
	}
	return agg, nil
}

// Collect 获取单个平台的结果, 永不失败
func (o *Orchestrator) Collect(ctx context.Context, platform models.Platform) models.PlatformResult {
	result := o.collect(ctx, platform)
	// 调用方已放弃的结果不计入指标
	if o.metrics != nil && ctx.Err() == nil {
		o.metrics.ObserveResult(result)
	}
	return result
}

func (o *Orchestrator) collect(ctx context.Context, platform models.Platform) models.PlatformResult {
	source, ok := o.sources[platform]
	if !ok {
		utils.Warnf("[%s] 未配置数据源, 使用演示数据", platform.DisplayName())
		return o.mocked(platform)
	}

	if platform.IsOverseas() && !o.network.RunOverseas() {
		utils.Debugf("[%s] 本地模式未配置代理, 跳过", platform.DisplayName())
		return models.PlatformResult{
			Platform:  platform,
			State:     models.StateSkipped,
			Rows:      []models.TrendRow{},
			FetchedAt: o.now(),
		}
	}

	if cached, hit := o.cache.Get(ctx, platform); hit {
		o.observeCache(true)
		utils.Debugf("[%s] 命中缓存 (%s)", platform.DisplayName(), cached.State)
		return cached
	}
	o.observeCache(false)

	// 调用方已取消时 BuildPlatforms 会返回错误, 演示数据只作占位, 不写缓存
	if ctx.Err() != nil {
		return o.mocked(platform)
	}

	gen := o.generation.Load()
	key := string(platform) + "@" + strconv.FormatUint(gen, 10)
	ch := o.group.DoChan(key, func() (interface{}, error) {
		return o.compute(ctx, source, gen), nil
	})

	// 取消只影响当前调用方, 合并的抓取继续为其他调用方服务
	select {
	case res := <-ch:
		return res.Val.(models.PlatformResult).Clone()
	case <-ctx.Done():
		utils.Debugf("[%s] 调用方已取消, 后台抓取继续", platform.DisplayName())
		return o.mocked(platform)
	}
}

// compute 抓取并解析, 无结果时使用演示数据
// 在脱离调用方取消的上下文中运行, 由 o.timeout 限定
func (o *Orchestrator) compute(parent context.Context, source crawlers.Source, gen uint64) models.PlatformResult {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), o.timeout)
	defer cancel()

	platform := source.Platform()
	start := o.now()

	rows := source.Collect(ctx)

	var result models.PlatformResult
	if len(rows) == 0 {
		utils.Warnf("[%s] 抓取失败或无数据, 使用演示数据", platform.DisplayName())
		result = o.mocked(platform)
	} else {
		result = models.PlatformResult{
			Platform:  platform,
			State:     models.StateLive,
			Rows:      models.Normalize(rows, false),
			FetchedAt: o.now(),
		}
		utils.Debugf("[%s] 获取%d条, 耗时%v", platform.DisplayName(), len(result.Rows), o.now().Sub(start))
	}

	// 超时的计算和旧一代的结果都不缓存
	if ctx.Err() == nil && o.generation.Load() == gen {
		o.cache.Set(ctx, result)
	}
	return result
}

func (o *Orchestrator) mocked(platform models.Platform) models.PlatformResult {
	return models.PlatformResult{
		Platform:  platform,
		State:     models.StateMocked,
		Rows:      models.Normalize(o.mock.Generate(platform), true),
		FetchedAt: o.now(),
	}
}

func (o *Orchestrator) observeCache(hit bool) {
	if o.metrics != nil {
		o.metrics.ObserveCache(hit)
	}
}
