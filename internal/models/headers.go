package models

import (
	"fmt"
	"net/http"
	"strings"
)

// HeaderConfig 表示headers.yaml配置文件的结构
type HeaderConfig struct {
	// Headers 对所有平台生效的静态头部
	Headers map[string]string `mapstructure:"headers" yaml:"headers"`

	// Platforms 按平台覆盖的头部 (如B站Cookie、Referer)
	// 键: 平台标识 (如 "bilibili")
	Platforms map[string]map[string]string `mapstructure:"platforms" yaml:"platforms"`
}

// CliHeaders 表示命令行传递的头部列表
// 每个字符串格式为 "Name: Value"
type CliHeaders []string

// Parse 将字符串列表解析为 http.Header
func (ch CliHeaders) Parse() (http.Header, error) {
	result := make(http.Header)
	for i, s := range ch {
		name, value, err := parseHeaderString(s)
		if err != nil {
			return nil, fmt.Errorf("参数 --header 第%d项格式错误: %w", i+1, err)
		}
		result.Set(name, value)
	}
	return result, nil
}

// parseHeaderString 解析单个头部字符串 "Name: Value"
func parseHeaderString(s string) (name, value string, err error) {
	name, value, found := strings.Cut(s, ":")
	if !found {
		return "", "", fmt.Errorf("缺少冒号分隔符,应为 'Name: Value'")
	}

	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return "", "", fmt.Errorf("头部名称不能为空")
	}
	return name, value, nil
}

// HeaderProvider 为抓取器提供静态请求头
type HeaderProvider interface {
	// HeadersFor 返回对指定平台生效的头部
	// 优先级: 默认 < 配置文件全局 < 配置文件平台 < 命令行
	HeadersFor(platform Platform) (http.Header, error)
}

// ValidationError 头部验证错误
type ValidationError struct {
	Field      string // 出错的字段 ("name" 或 "value")
	HeaderName string
	Reason     string
	Suggestion string // 修复建议 (可选)
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("头部验证失败 [%s]: %s", e.HeaderName, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (建议: %s)", e.Suggestion)
	}
	return msg
}

// ConfigError 配置文件错误
type ConfigError struct {
	FilePath string
	Cause    error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置文件错误 [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
