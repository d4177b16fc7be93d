package crawlers

import (
	"context"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// XiaohongshuSource 小红书没有可匿名访问的榜单接口, 始终返回空结果
type XiaohongshuSource struct{}

// NewXiaohongshuSource 创建小红书数据源
func NewXiaohongshuSource() *XiaohongshuSource {
	return &XiaohongshuSource{}
}

// Platform 实现 Source 接口
func (s *XiaohongshuSource) Platform() models.Platform { return models.PlatformXiaohongshu }

// Collect 实现 Source 接口
func (s *XiaohongshuSource) Collect(context.Context) []models.TrendRow {
	return nil
}
