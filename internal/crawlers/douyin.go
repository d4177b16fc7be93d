package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/parsers"
)

// DouyinBillboardURL 抖音热搜榜接口
const DouyinBillboardURL = "https://www.iesdouyin.com/web/api/v2/hotsearch/billboard/word/"

// DouyinSource 抖音热搜
type DouyinSource struct {
	fetcher *Fetcher
	URL     string
}

// NewDouyinSource 创建抖音数据源
func NewDouyinSource(f *Fetcher) *DouyinSource {
	return &DouyinSource{fetcher: f, URL: DouyinBillboardURL}
}

// Platform 实现 Source 接口
func (s *DouyinSource) Platform() models.Platform { return models.PlatformDouyin }

// Collect 实现 Source 接口
func (s *DouyinSource) Collect(ctx context.Context) []models.TrendRow {
	body, ok := s.fetcher.Get(ctx, s.URL, RequestOptions{Platform: models.PlatformDouyin})
	if !ok {
		return nil
	}
	return parsers.ParseDouyin(body)
}
