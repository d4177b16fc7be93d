package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/parsers"
)

// 海外榜单页面
const (
	YouTubeTrendingURL = "https://kworb.net/youtube/trending_overall.html"
	TwitterTrendsURL   = "https://getdaytrends.com/"
)

// OverseasSource 海外平台数据源, 本地模式下请求走代理
type OverseasSource struct {
	fetcher  *Fetcher
	platform models.Platform
	parse    func([]byte) []models.TrendRow
	URL      string
}

// NewYouTubeSource 创建YouTube趋势数据源
func NewYouTubeSource(f *Fetcher) *OverseasSource {
	return &OverseasSource{
		fetcher:  f,
		platform: models.PlatformYouTube,
		parse:    parsers.ParseYouTube,
		URL:      YouTubeTrendingURL,
	}
}

// NewTwitterSource 创建Twitter趋势数据源
func NewTwitterSource(f *Fetcher) *OverseasSource {
	return &OverseasSource{
		fetcher:  f,
		platform: models.PlatformTwitter,
		parse:    parsers.ParseTwitter,
		URL:      TwitterTrendsURL,
	}
}

// Platform 实现 Source 接口
func (s *OverseasSource) Platform() models.Platform { return s.platform }

// Collect 实现 Source 接口
func (s *OverseasSource) Collect(ctx context.Context) []models.TrendRow {
	body, ok := s.fetcher.Get(ctx, s.URL, RequestOptions{Platform: s.platform, UseProxy: true})
	if !ok {
		return nil
	}
	return s.parse(body)
}
