package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/RecoveryAshes/trendboard/internal/cache"
	"github.com/RecoveryAshes/trendboard/internal/config"
	"github.com/RecoveryAshes/trendboard/internal/core"
	"github.com/RecoveryAshes/trendboard/internal/crawlers"
	"github.com/RecoveryAshes/trendboard/internal/metrics"
	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/render"
	"github.com/RecoveryAshes/trendboard/internal/report"
	"github.com/RecoveryAshes/trendboard/internal/server"
	"github.com/RecoveryAshes/trendboard/internal/utils"
)

// app 一次命令执行所需的组件
type app struct {
	config   *config.Config
	headers  *core.HeaderManager
	recorder *metrics.Recorder
	orch     *core.Orchestrator
	reporter *report.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	headerManager, err := core.NewHeaderManager(cfg.HeadersFile, headers)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	if err := headerManager.LoadConfig(); err != nil {
		return nil, fmt.Errorf("加载HTTP头部配置失败: %w", err)
	}

	recorder := metrics.NewRecorder()
	fetcher := crawlers.NewFetcher(cfg.Network, headerManager, crawlers.WithObserver(recorder.ObserveFetch))

	store, err := cache.New(ctx, cache.Options{
		Backend:       cfg.Cache.Backend,
		TTL:           cfg.Cache.TTL,
		Size:          cfg.Cache.Size,
		RedisAddr:     cfg.Cache.Redis.Addr,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		RedisPrefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		utils.Warnf("缓存后端不可用, 使用内存缓存: %v", err)
		store = cache.NewMemoryStore(cfg.Cache.Size, cfg.Cache.TTL)
	}

	orch := core.NewOrchestrator(crawlers.DefaultSources(fetcher), core.Options{
		Network:     cfg.Network,
		Cache:       store,
		Metrics:     recorder,
		Parallelism: cfg.Fetch.Parallelism,
	})

	reporter := report.NewClient(report.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})

	network := cfg.Network
	switch {
	case network.CloudMode:
		utils.Info("☁️ 云端模式: 所有平台直连")
	case network.ProxyURL() != "":
		utils.Infof("🔌 本地代理: %s", network.ProxyURL())
	default:
		utils.Info("🏠 本地模式: 未配置代理, 跳过海外平台")
	}

	return &app{
		config:   cfg,
		headers:  headerManager,
		recorder: recorder,
		orch:     orch,
		reporter: reporter,
	}, nil
}

// build 按命令行参数获取快照, 带进度条
func (a *app) build(ctx context.Context) (*models.Aggregate, error) {
	selected, err := utils.ParsePlatforms(platforms)
	if err != nil {
		return nil, err
	}

	bar := utils.NewProgressBar(os.Stderr, len(selected), "抓取热榜")
	progress := func(r models.PlatformResult) {
		_ = bar.Add(1)
	}

	if refresh {
		return a.orch.RefreshPlatforms(ctx, selected, progress)
	}
	return a.orch.BuildPlatforms(ctx, selected, progress)
}

func runShow(ctx context.Context) error {
	a, err := newApp(ctx, appConfig)
	if err != nil {
		return err
	}

	agg, err := a.build(ctx)
	if err != nil {
		return err
	}

	term := render.NewTerminal(os.Stdout, render.WithLinks(showLinks))
	if err := term.Render(agg); err != nil {
		return err
	}

	if withAI {
		content, err := a.reporter.Generate(ctx, agg)
		term.RenderReport(a.reporter.Model(), content, err)
	}
	return nil
}

func runExport(ctx context.Context) error {
	a, err := newApp(ctx, appConfig)
	if err != nil {
		return err
	}

	agg, err := a.build(ctx)
	if err != nil {
		return err
	}

	path, err := utils.NewReporter(a.config.OutputDir).SaveSnapshot(agg, output)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx, appConfig)
	if err != nil {
		return err
	}

	listen := addr
	if listen == "" {
		listen = a.config.Server.Addr
	}
	if err := ValidateListenAddr(listen); err != nil {
		return err
	}

	// 启动时预热一次缓存
	if _, err := a.orch.Build(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
		utils.Warnf("预热缓存失败: %v", err)
	}

	return server.New(a.orch, a.reporter, a.recorder).Run(ctx, listen)
}

func runValidateConfig() error {
	utils.Info("🔍 验证HTTP头部配置...")

	headerManager, err := core.NewHeaderManager(appConfig.HeadersFile, headers)
	if err != nil {
		return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	if err := headerManager.LoadConfig(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	utils.Info("✅ 配置验证通过!")
	if f := appConfig.File(); f != "" {
		utils.Infof("配置文件: %s", f)
	}
	utils.Infof("缓存后端: %s (TTL %s)", appConfig.Cache.Backend, appConfig.Cache.TTL)
	if appConfig.AI.APIKey == "" {
		utils.Warn("未配置大模型 API Key, 舆情简报不可用")
	} else {
		utils.Infof("大模型: %s (API Key %s)", appConfig.AI.Model, utils.Mask(appConfig.AI.APIKey))
	}

	for _, p := range models.AllPlatforms {
		safe := headerManager.SafeHeaders(p)
		names := make([]string, 0, len(safe))
		for name := range safe {
			names = append(names, name)
		}
		sort.Strings(names)

		utils.Infof("%s 有效HTTP头部 (%d个):", p.DisplayName(), len(safe))
		for _, name := range names {
			utils.Infof("  %s: %s", name, safe[name])
		}
	}
	return nil
}
