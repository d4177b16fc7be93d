// Package parsers 将各平台的原始响应解析为热榜条目
//
// 所有解析函数都是纯函数: 不发起网络请求, 不返回错误.
// 单个条目结构异常时跳过该条目; 整体结构不符时返回空切片.
// 结果最多 models.MaxRows 条, 排名按提取顺序从1连续编号.
package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// FormatCount 格式化热度/播放量
// 超过一万时显示为 "x.x万", 否则显示整数
func FormatCount(n int64) string {
	if n > 10000 {
		return fmt.Sprintf("%.1f万", float64(n)/10000)
	}
	return strconv.FormatInt(n, 10)
}

// heatText 将JSON中的热度字段转为展示文本
// 数值走FormatCount, 字符串原样保留 (去除首尾空白), 缺失或null为空
func heatText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return ""
	}
	if n, err := num.Int64(); err == nil {
		return FormatCount(n)
	}
	if f, err := num.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return FormatCount(int64(f))
	}
	return ""
}

// stringField 读取字符串字段, 非字符串视为缺失
func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstN 截取前n个源条目, 再逐条校验
func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// appendRow 追加条目并按位置编号
func appendRow(rows []models.TrendRow, row models.TrendRow) []models.TrendRow {
	row.Rank = len(rows) + 1
	row.IsMock = false
	return append(rows, row)
}
