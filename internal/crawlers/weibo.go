package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/parsers"
	"github.com/RecoveryAshes/trendboard/internal/utils"
)

// 微博接口地址
const (
	WeiboHomeURL    = "https://weibo.com/"
	WeiboDesktopURL = "https://weibo.com/ajax/side/hotSearch"
	WeiboMobileURL  = "https://m.weibo.cn/api/container/getIndex?containerid=106003type%3D25%26t%3D3%26disable_hot%3D1%26is_ext%3D1"
)

// WeiboSource 微博热搜, 两级获取:
//  1. 同一会话先访问首页获取cookie, 再请求桌面接口
//  2. 桌面接口无结果时使用移动端UA请求移动接口
type WeiboSource struct {
	fetcher    *Fetcher
	HomeURL    string
	DesktopURL string
	MobileURL  string
}

// NewWeiboSource 创建微博数据源
func NewWeiboSource(f *Fetcher) *WeiboSource {
	return &WeiboSource{
		fetcher:    f,
		HomeURL:    WeiboHomeURL,
		DesktopURL: WeiboDesktopURL,
		MobileURL:  WeiboMobileURL,
	}
}

// Platform 实现 Source 接口
func (s *WeiboSource) Platform() models.Platform { return models.PlatformWeibo }

// Collect 实现 Source 接口
func (s *WeiboSource) Collect(ctx context.Context) []models.TrendRow {
	if rows := s.collectDesktop(ctx); len(rows) > 0 {
		return rows
	}
	utils.Debugf("微博桌面接口无结果, 尝试移动接口")
	return s.collectMobile(ctx)
}

func (s *WeiboSource) collectDesktop(ctx context.Context) []models.TrendRow {
	session := s.fetcher.Session()
	opts := RequestOptions{
		Platform: models.PlatformWeibo,
		Headers:  headers("Referer", WeiboHomeURL),
	}

	// 预热只为获取cookie, 结果不影响后续请求
	session.Get(ctx, s.HomeURL, opts)

	body, ok := session.Get(ctx, s.DesktopURL, opts)
	if !ok {
		return nil
	}
	return parsers.ParseWeiboDesktop(body)
}

func (s *WeiboSource) collectMobile(ctx context.Context) []models.TrendRow {
	body, ok := s.fetcher.Get(ctx, s.MobileURL, RequestOptions{
		Platform: models.PlatformWeibo,
		Headers:  headers("User-Agent", MobileUserAgent, "Referer", "https://m.weibo.cn/"),
	})
	if !ok {
		return nil
	}
	return parsers.ParseWeiboMobile(body)
}
