package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}
}

// chdir 切换工作目录, 测试结束后恢复
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("获取工作目录失败: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("切换工作目录失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}

	if !cfg.Network.CloudMode {
		t.Error("默认应为云端模式")
	}
	if cfg.Network.ProxyHost != models.DefaultProxyHost {
		t.Errorf("期望 proxy_host=%s, 实际=%s", models.DefaultProxyHost, cfg.Network.ProxyHost)
	}
	if cfg.Network.Timeout != models.DefaultFetchTimeout {
		t.Errorf("期望 timeout=%v, 实际=%v", models.DefaultFetchTimeout, cfg.Network.Timeout)
	}
	if cfg.Fetch.Parallelism != len(models.AllPlatforms) {
		t.Errorf("期望 parallelism=%d, 实际=%d", len(models.AllPlatforms), cfg.Fetch.Parallelism)
	}
	if cfg.Cache.Backend != CacheBackendMemory || cfg.Cache.TTL != time.Hour {
		t.Errorf("缓存默认值错误: %+v", cfg.Cache)
	}
	if cfg.AI.Model != "glm-4-flash" || cfg.AI.Temperature != 0.7 {
		t.Errorf("AI默认值错误: %+v", cfg.AI)
	}
	if cfg.HeadersFile != DefaultHeadersFile {
		t.Errorf("期望 headers_file=%s, 实际=%s", DefaultHeadersFile, cfg.HeadersFile)
	}
	if cfg.File() != "" {
		t.Errorf("未找到配置文件时 File() 应为空, 实际=%s", cfg.File())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `network:
  cloud_mode: false
  proxy_port: "7890"
  timeout: 12s
cache:
  ttl: 30m
fetch:
  parallelism: 2
`)

	t.Setenv("TRENDBOARD_CACHE_BACKEND", "redis")
	t.Setenv("ZHIPUAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Network.CloudMode {
		t.Error("配置文件中 cloud_mode=false 未生效")
	}
	if cfg.Network.ProxyURL() != "http://127.0.0.1:7890" {
		t.Errorf("ProxyURL = %s", cfg.Network.ProxyURL())
	}
	if cfg.Network.Timeout != 12*time.Second {
		t.Errorf("期望 timeout=12s, 实际=%v", cfg.Network.Timeout)
	}
	if cfg.Cache.TTL != 30*time.Minute || cfg.Fetch.Parallelism != 2 {
		t.Errorf("配置文件值未生效: %+v %+v", cfg.Cache, cfg.Fetch)
	}
	if cfg.Cache.Backend != CacheBackendRedis {
		t.Errorf("环境变量应覆盖配置文件, 实际 backend=%s", cfg.Cache.Backend)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("ZHIPUAI_API_KEY 未生效, 实际=%q", cfg.AI.APIKey)
	}
	if cfg.File() != path {
		t.Errorf("File() = %s, want %s", cfg.File(), path)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ".env"), "TRENDBOARD_SERVER_ADDR=:9090\n")
	t.Cleanup(func() { os.Unsetenv("TRENDBOARD_SERVER_ADDR") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("期望 .env 中的 server.addr 生效, 实际=%s", cfg.Server.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"代理端口越界", "network:\n  proxy_port: \"70000\"\n"},
		{"代理端口非数字", "network:\n  proxy_port: \"abc\"\n"},
		{"未知缓存后端", "cache:\n  backend: memcached\n"},
		{"并发数为0", "fetch:\n  parallelism: 0\n"},
		{"温度越界", "ai:\n  temperature: 1.5\n"},
		{"大模型地址无效", "ai:\n  base_url: ftp://example.com\n"},
		{"YAML格式错误", "network:\n  cloud_mode: \"true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			path := filepath.Join(dir, "config.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			var cfgErr *models.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("期望 ConfigError, 实际=%v", err)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"默认智谱地址", "https://open.bigmodel.cn/api/paas/v4", false},
		{"本地兼容服务", "http://127.0.0.1:11434/v1", false},
		{"不支持的协议", "ftp://example.com", true},
		{"相对路径", "api/v1", true},
		{"空地址", "", true},
		{"缺少主机名", "http:///v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEndpoint(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEndpoint(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	cloud := false
	port := " 1080 "
	if err := cfg.ApplyOverrides(&cloud, &port); err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if cfg.Network.CloudMode || cfg.Network.ProxyPort != "1080" {
		t.Errorf("命令行覆盖未生效: %+v", cfg.Network)
	}
	if !cfg.Network.RunOverseas() {
		t.Error("本地模式配置代理端口后应抓取海外平台")
	}

	bad := "0"
	if err := cfg.ApplyOverrides(nil, &bad); err == nil {
		t.Error("非法端口应该返回错误")
	}
}
