package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/parsers"
)

// BaiduBoardURL 百度实时热搜榜
const BaiduBoardURL = "https://top.baidu.com/board?tab=realtime"

// BaiduSource 百度热搜
type BaiduSource struct {
	fetcher *Fetcher
	URL     string
}

// NewBaiduSource 创建百度数据源
func NewBaiduSource(f *Fetcher) *BaiduSource {
	return &BaiduSource{fetcher: f, URL: BaiduBoardURL}
}

// Platform 实现 Source 接口
func (s *BaiduSource) Platform() models.Platform { return models.PlatformBaidu }

// Collect 实现 Source 接口
func (s *BaiduSource) Collect(ctx context.Context) []models.TrendRow {
	body, ok := s.fetcher.Get(ctx, s.URL, RequestOptions{Platform: models.PlatformBaidu})
	if !ok {
		return nil
	}
	return parsers.ParseBaidu(body)
}
