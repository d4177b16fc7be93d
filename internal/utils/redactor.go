package utils

import (
	"net/http"
	"sort"
	"strings"
)

// SensitiveKeywords 敏感头部名称关键字
// 抓取平台用到的Cookie同样视为敏感信息
var SensitiveKeywords = []string{
	"authorization",
	"cookie",
	"token",
	"key",
	"secret",
	"password",
	"credential",
}

// Redactor 日志和配置展示时的脱敏器
type Redactor struct {
	sensitiveKeywords []string
}

// NewRedactor 创建脱敏器
func NewRedactor() *Redactor {
	return &Redactor{sensitiveKeywords: SensitiveKeywords}
}

// IsSensitive 按名称关键字判断是否敏感
func (r *Redactor) IsSensitive(name string) bool {
	nameLower := strings.ToLower(name)
	for _, keyword := range r.sensitiveKeywords {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}

// Mask 对单个值脱敏
//   - Bearer Token: 仅保留前缀
//   - 长值: 保留前4位和后4位
//   - 短值: 完全隐藏
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}
	return "***"
}

// RedactValue 敏感名称的值会被脱敏,其他原样返回
func (r *Redactor) RedactValue(name, value string) string {
	if !r.IsSensitive(name) {
		return value
	}
	return Mask(value)
}

// Redact 脱敏整个http.Header,每个头部只取第一个值
func (r *Redactor) Redact(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		result[name] = r.RedactValue(name, values[0])
	}
	return result
}

// RedactToString 脱敏并格式化为按名称排序的 "Name: value, ..." 字符串
func (r *Redactor) RedactToString(headers http.Header) string {
	redacted := r.Redact(headers)
	names := make([]string, 0, len(redacted))
	for name := range redacted {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+redacted[name])
	}
	return strings.Join(parts, ", ")
}
