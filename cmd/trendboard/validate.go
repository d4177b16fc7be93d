package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(proxyPort string, parallelism int, platformFlags []string) error {
	// 验证代理端口
	network := models.NetworkConfig{ProxyPort: proxyPort}
	if err := network.Validate(); err != nil {
		return fmt.Errorf("无效的代理端口: %w", err)
	}

	// 验证并发数
	if parallelism < 1 || parallelism > 32 {
		return fmt.Errorf("并发数必须在1-32之间,当前值: %d", parallelism)
	}

	// 验证平台
	if _, err := utils.ParsePlatforms(platformFlags); err != nil {
		return err
	}

	return nil
}

// ValidateListenAddr 验证监听地址
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("监听地址不能为空")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("无效的监听地址 %s: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("无效的监听端口: %s", port)
	}
	return nil
}
