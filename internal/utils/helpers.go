package utils

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// ParsePlatforms 解析命令行 --platform 参数
// 支持平台标识和中文名, 逗号分隔或多次指定; 为空时返回全部平台
func ParsePlatforms(values []string) ([]models.Platform, error) {
	if len(values) == 0 {
		return append([]models.Platform(nil), models.AllPlatforms...), nil
	}

	seen := make(map[models.Platform]bool)
	platforms := make([]models.Platform, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			p, ok := models.ParsePlatform(part)
			if !ok {
				return nil, fmt.Errorf("未知平台: %s", part)
			}
			if !seen[p] {
				seen[p] = true
				platforms = append(platforms, p)
			}
		}
	}

	if len(platforms) == 0 {
		return nil, fmt.Errorf("未指定有效平台")
	}
	return platforms, nil
}
