package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/parsers"
)

// B站排行榜接口
const (
	BilibiliRankingURL = "https://api.bilibili.com/x/web-interface/ranking/v2?rid=0&type=all"
	bilibiliReferer    = "https://www.bilibili.com/v/popular/rank/all"
	bilibiliCookie     = "b_nut=1712000000;"
)

// BilibiliSource B站全站排行榜
type BilibiliSource struct {
	fetcher *Fetcher
	URL     string
}

// NewBilibiliSource 创建B站数据源
func NewBilibiliSource(f *Fetcher) *BilibiliSource {
	return &BilibiliSource{fetcher: f, URL: BilibiliRankingURL}
}

// Platform 实现 Source 接口
func (s *BilibiliSource) Platform() models.Platform { return models.PlatformBilibili }

// Collect 实现 Source 接口
func (s *BilibiliSource) Collect(ctx context.Context) []models.TrendRow {
	body, ok := s.fetcher.Get(ctx, s.URL, RequestOptions{
		Platform: models.PlatformBilibili,
		Headers:  headers("Referer", bilibiliReferer, "Cookie", bilibiliCookie),
	})
	if !ok {
		return nil
	}
	return parsers.ParseBilibili(body)
}
