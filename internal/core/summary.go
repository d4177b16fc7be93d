package core

import (
	"strings"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
)

// CycleSummary 一次刷新的摘要
type CycleSummary struct {
	Stats    models.CycleStats
	Duration time.Duration
	Mocked   []models.Platform
	Skipped  []models.Platform
}

// NewCycleSummary 根据快照生成摘要
func NewCycleSummary(agg *models.Aggregate, duration time.Duration) CycleSummary {
	summary := CycleSummary{
		Stats:    agg.Stats(),
		Duration: duration,
	}
	for _, r := range agg.Results() {
		switch r.State {
		case models.StateMocked:
			summary.Mocked = append(summary.Mocked, r.Platform)
		case models.StateSkipped:
			summary.Skipped = append(summary.Skipped, r.Platform)
		}
	}
	return summary
}

// Log 打印刷新摘要
func (s CycleSummary) Log() {
	utils.Infof("📊 热榜刷新完成: 平台%d个, ✅ 实时%d, ⚠️ 演示%d, ⏭️ 跳过%d, 共%d条, 耗时%.2f秒",
		s.Stats.Platforms, s.Stats.Live, s.Stats.Mocked, s.Stats.Skipped, s.Stats.Rows, s.Duration.Seconds())

	if len(s.Mocked) > 0 {
		utils.Warnf("以下平台使用演示数据: %s", joinNames(s.Mocked))
	}
	if len(s.Skipped) > 0 {
		utils.Infof("以下平台需要代理, 已跳过: %s", joinNames(s.Skipped))
	}
}

func joinNames(platforms []models.Platform) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.DisplayName()
	}
	return strings.Join(names, ", ")
}
