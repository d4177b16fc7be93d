package models

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultFetchTimeout 单次请求默认超时
	DefaultFetchTimeout = 15 * time.Second

	// MinFetchTimeout / MaxFetchTimeout 超时允许范围
	MinFetchTimeout = 10 * time.Second
	MaxFetchTimeout = 15 * time.Second

	// DefaultProxyHost 本地代理默认地址
	DefaultProxyHost = "127.0.0.1"
)

// NetworkConfig 网络设置
// 在一次刷新周期内只读,显式传给抓取器而不是写入进程环境变量
type NetworkConfig struct {
	CloudMode bool          `mapstructure:"cloud_mode" json:"cloud_mode"` // 云端部署: 直连,不使用本地代理
	ProxyHost string        `mapstructure:"proxy_host" json:"proxy_host"` // 本地代理主机
	ProxyPort string        `mapstructure:"proxy_port" json:"proxy_port"` // 本地代理端口,为空表示未配置
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout"`       // 单次请求超时
}

// ProxyURL 返回配置的代理地址,未配置端口时为空
func (n NetworkConfig) ProxyURL() string {
	if n.ProxyPort == "" {
		return ""
	}
	host := n.ProxyHost
	if host == "" {
		host = DefaultProxyHost
	}
	return "http://" + net.JoinHostPort(host, n.ProxyPort)
}

// RunOverseas 是否抓取海外平台: 云端部署,或本地配置了代理
func (n NetworkConfig) RunOverseas() bool {
	if n.CloudMode {
		return true
	}
	return n.ProxyURL() != ""
}

// ProxyFor 返回本次请求应使用的代理
// 仅当调用方要求使用代理且不在云端模式时才生效
func (n NetworkConfig) ProxyFor(useProxy bool) string {
	if !useProxy || n.CloudMode {
		return ""
	}
	return n.ProxyURL()
}

// EffectiveTimeout 返回限定在允许范围内的超时
func (n NetworkConfig) EffectiveTimeout() time.Duration {
	switch {
	case n.Timeout <= 0:
		return DefaultFetchTimeout
	case n.Timeout < MinFetchTimeout:
		return MinFetchTimeout
	case n.Timeout > MaxFetchTimeout:
		return MaxFetchTimeout
	}
	return n.Timeout
}

// Validate 验证网络配置
func (n NetworkConfig) Validate() error {
	if n.ProxyPort == "" {
		return nil
	}
	port, err := strconv.Atoi(n.ProxyPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("代理端口必须是1-65535之间的数字,当前值: %s", n.ProxyPort)
	}
	return nil
}
