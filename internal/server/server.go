// Package server 提供热榜的HTTP接口
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/core"
	"github.com/RecoveryAshes/trendboard/internal/metrics"
	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout 优雅关闭的最长等待时间
const ShutdownTimeout = 10 * time.Second

// Aggregator 热榜快照的来源, 由 core.Orchestrator 实现
type Aggregator interface {
	Platforms() []models.Platform
	Network() models.NetworkConfig
	BuildPlatforms(ctx context.Context, platforms []models.Platform, progress core.ProgressFunc) (*models.Aggregate, error)
	RefreshPlatforms(ctx context.Context, platforms []models.Platform, progress core.ProgressFunc) (*models.Aggregate, error)
}

// ReportGenerator 大模型简报生成器, 由 report.Client 实现
type ReportGenerator interface {
	Model() string
	Generate(ctx context.Context, agg *models.Aggregate) (string, error)
}

// Server 热榜HTTP服务
type Server struct {
	aggregator Aggregator
	reporter   ReportGenerator
	recorder   *metrics.Recorder
	health     *HealthProbe
	engine     *gin.Engine

	mu     sync.RWMutex
	latest *models.Aggregate // 最近一次快照, 可能只含部分平台
	full   *models.Aggregate // 最近一次包含全部平台的快照
}

// New 创建HTTP服务, reporter 和 recorder 可以为nil
func New(aggregator Aggregator, reporter ReportGenerator, recorder *metrics.Recorder) *Server {
	s := &Server{
		aggregator: aggregator,
		reporter:   reporter,
		recorder:   recorder,
		health:     NewHealthProbe(),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	s.registerRoutes(engine)
	s.engine = engine
	return s
}

// Handler 返回HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/platforms", s.GetPlatforms)
		api.GET("/trends", s.GetTrends)
		api.POST("/refresh", s.Refresh)
		api.GET("/report", s.GetReport)
	}

	r.GET("/health", s.GetHealth)
	if s.recorder != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.recorder.Registry(), promhttp.HandlerOpts{})))
	}
}

// Run 启动服务, ctx取消后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Infof("🌐 HTTP服务已启动: %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.Info("正在关闭HTTP服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}
	utils.Info("HTTP服务已关闭")
	return nil
}

type platformInfo struct {
	ID       models.Platform `json:"id"`
	Name     string          `json:"name"`
	Overseas bool            `json:"overseas"`
	Enabled  bool            `json:"enabled"`
}

// GetPlatforms 列出平台及海外平台是否会被抓取
func (s *Server) GetPlatforms(c *gin.Context) {
	network := s.aggregator.Network()
	platforms := s.aggregator.Platforms()

	items := make([]platformInfo, 0, len(platforms))
	for _, p := range platforms {
		items = append(items, platformInfo{
			ID:       p,
			Name:     p.DisplayName(),
			Overseas: p.IsOverseas(),
			Enabled:  !p.IsOverseas() || network.RunOverseas(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"platforms":  items,
		"cloud_mode": network.CloudMode,
		"proxy":      network.ProxyURL() != "",
	})
}

// GetTrends 获取热榜快照
// ?platform=weibo,douyin 限定平台, ?refresh=true 清空缓存后重新抓取
func (s *Server) GetTrends(c *gin.Context) {
	refresh, err := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh 参数必须是布尔值"})
		return
	}
	s.serveAggregate(c, refresh)
}

// Refresh 清空缓存后重新抓取
func (s *Server) Refresh(c *gin.Context) {
	s.serveAggregate(c, true)
}

func (s *Server) serveAggregate(c *gin.Context, refresh bool) {
	platforms, err := s.platforms(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agg, err := s.build(c.Request.Context(), platforms, refresh)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, agg.Report())
}

// GetReport 基于最近一次全平台快照生成舆情简报
// 简报失败不影响接口状态, 错误以 error 字段返回
func (s *Server) GetReport(c *gin.Context) {
	s.mu.RLock()
	agg := s.full
	s.mu.RUnlock()
	if agg == nil {
		var err error
		agg, err = s.build(c.Request.Context(), s.aggregator.Platforms(), false)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	}

	if s.reporter == nil {
		c.JSON(http.StatusOK, gin.H{"snapshot_id": agg.ID, "content": "", "error": "未启用舆情简报"})
		return
	}

	body := gin.H{"snapshot_id": agg.ID, "model": s.reporter.Model(), "platforms": agg.Platforms()}
	content, err := s.reporter.Generate(c.Request.Context(), agg)
	if err != nil {
		utils.Warnf("生成舆情简报失败: %v", err)
		body["content"] = ""
		body["error"] = err.Error()
	} else {
		body["content"] = content
	}
	c.JSON(http.StatusOK, body)
}

// GetHealth 健康检查
func (s *Server) GetHealth(c *gin.Context) {
	status := s.health.Check()
	if agg := s.Latest(); agg != nil {
		t := agg.CreatedAt
		status.LastBuild = &t
	}
	c.JSON(http.StatusOK, status)
}

// Latest 返回最近一次构建的快照, 尚未构建时为nil
func (s *Server) Latest() *models.Aggregate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) build(ctx context.Context, platforms []models.Platform, refresh bool) (*models.Aggregate, error) {
	var (
		agg *models.Aggregate
		err error
	)
	if refresh {
		agg, err = s.aggregator.RefreshPlatforms(ctx, platforms, nil)
	} else {
		agg, err = s.aggregator.BuildPlatforms(ctx, platforms, nil)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = agg
	if len(agg.Platforms()) == len(s.aggregator.Platforms()) {
		s.full = agg
	}
	s.mu.Unlock()
	return agg, nil
}

// platforms 解析 platform 查询参数, 为空时返回全部平台
func (s *Server) platforms(c *gin.Context) ([]models.Platform, error) {
	values := c.QueryArray("platform")
	if len(values) == 0 {
		return s.aggregator.Platforms(), nil
	}
	platforms, err := utils.ParsePlatforms(values)
	if err != nil {
		return nil, err
	}

	known := make(map[models.Platform]bool)
	for _, p := range s.aggregator.Platforms() {
		known[p] = true
	}
	for _, p := range platforms {
		if !known[p] {
			return nil, fmt.Errorf("未启用的平台: %s", p)
		}
	}
	return platforms, nil
}

// requestLogger 请求日志中间件
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		if status >= http.StatusInternalServerError {
			utils.Warnf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		utils.Debugf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
