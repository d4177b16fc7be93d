package crawlers

import (
	"context"
	"net/http"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// Source 单个平台的数据源: 抓取并解析, 失败时返回空切片
type Source interface {
	Platform() models.Platform
	Collect(ctx context.Context) []models.TrendRow
}

// DefaultSources 返回所有平台的数据源, 顺序与 models.AllPlatforms 一致
func DefaultSources(f *Fetcher) []Source {
	byPlatform := map[models.Platform]Source{
		models.PlatformBaidu:       NewBaiduSource(f),
		models.PlatformWeibo:       NewWeiboSource(f),
		models.PlatformBilibili:    NewBilibiliSource(f),
		models.PlatformDouyin:      NewDouyinSource(f),
		models.PlatformXiaohongshu: NewXiaohongshuSource(),
		models.PlatformYouTube:     NewYouTubeSource(f),
		models.PlatformTwitter:     NewTwitterSource(f),
	}

	sources := make([]Source, 0, len(models.AllPlatforms))
	for _, p := range models.AllPlatforms {
		sources = append(sources, byPlatform[p])
	}
	return sources
}

// headers 构造调用方头部
func headers(kv ...string) http.Header {
	h := make(http.Header, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}
