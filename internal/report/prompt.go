// Package report 基于热榜快照生成大模型舆情简报
package report

import (
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

const promptHeader = "你是一位全网舆情专家。以下是各平台实时热搜：\n\n"

const promptInstructions = `
请生成一份简练的【舆情简报】（Markdown格式，不要太长）：
1. **焦点话题**：全网都在看什么？
2. **平台差异**：抖音/小红书 vs 微博/B站 vs 海外。
3. **趋势预测**：下一个爆点。
`

// BuildPrompt 将快照拼接为提示词
// 每个有数据的平台一行: 【平台名(演示数据)】：标题1, 标题2...
// 所有平台都没有数据时返回 ok=false
func BuildPrompt(agg *models.Aggregate) (string, bool) {
	var b strings.Builder
	b.WriteString(promptHeader)

	hasData := false
	for _, r := range agg.Results() {
		if r.IsEmpty() {
			continue
		}
		hasData = true

		b.WriteString("【")
		b.WriteString(r.Platform.DisplayName())
		if r.IsMock() {
			b.WriteString("(演示数据)")
		}
		b.WriteString("】：")
		b.WriteString(strings.Join(r.Titles(), ", "))
		b.WriteString("\n")
	}

	if !hasData {
		return "", false
	}

	b.WriteString(promptInstructions)
	return b.String(), true
}
