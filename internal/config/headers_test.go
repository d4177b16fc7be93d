package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHeaderConfigLoader_LoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "headers.yaml")

	t.Run("首次运行自动生成配置文件", func(t *testing.T) {
		loader := NewHeaderConfigLoader(configPath)

		cfg, err := loader.LoadConfig()
		if err != nil {
			t.Fatalf("加载配置失败: %v", err)
		}
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Fatal("配置文件应该被自动生成")
		}
		if cfg.Headers == nil || cfg.Platforms == nil {
			t.Fatal("Headers/Platforms map应该被初始化")
		}
	})

	t.Run("加载全局与平台头部", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		writeFile(t, path, `headers:
  Accept-Language: "en-US"
platforms:
  bilibili:
    Referer: "https://www.bilibili.com/"
  kuaishou:
    X-Ignored: "1"
`)

		cfg, err := NewHeaderConfigLoader(path).LoadConfig()
		if err != nil {
			t.Fatalf("加载配置失败: %v", err)
		}

		// viper会将键名转换为小写
		if cfg.Headers["accept-language"] != "en-US" {
			t.Errorf("期望 accept-language='en-US', 实际='%s'", cfg.Headers["accept-language"])
		}
		if cfg.Platforms["bilibili"]["referer"] != "https://www.bilibili.com/" {
			t.Errorf("平台头部未加载: %v", cfg.Platforms)
		}
		if _, ok := cfg.Platforms["kuaishou"]; ok {
			t.Error("未知平台应该被忽略")
		}
	})

	t.Run("YAML格式错误返回错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		writeFile(t, path, "headers:\n  User-Agent: \"Test Bot\n  X-Custom: missing quote\n")

		if _, err := NewHeaderConfigLoader(path).LoadConfig(); err == nil {
			t.Fatal("期望返回错误,但成功了")
		}
	})

	t.Run("空配置文件处理", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		writeFile(t, path, "headers:")

		cfg, err := NewHeaderConfigLoader(path).LoadConfig()
		if err != nil {
			t.Fatalf("加载空配置失败: %v", err)
		}
		if cfg.Headers == nil {
			t.Fatal("Headers map应该被初始化为空map")
		}
	})

	t.Run("配置文件大小验证", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		writeFile(t, path, string(make([]byte, MaxConfigFileSize+1)))

		if _, err := NewHeaderConfigLoader(path).LoadConfig(); err == nil {
			t.Fatal("期望超大配置文件被拒绝,但成功了")
		}
	})
}

func TestNewHeaderConfigLoader_DefaultPath(t *testing.T) {
	if got := NewHeaderConfigLoader("").Path(); got != DefaultHeadersFile {
		t.Errorf("期望默认路径 %s, 实际 %s", DefaultHeadersFile, got)
	}
}
