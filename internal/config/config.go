package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀, 如 TRENDBOARD_NETWORK_PROXY_PORT
const EnvPrefix = "TRENDBOARD"

// 缓存后端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config 应用程序配置
type Config struct {
	Network     models.NetworkConfig `mapstructure:"network"`
	Fetch       FetchConfig          `mapstructure:"fetch"`
	Cache       CacheConfig          `mapstructure:"cache"`
	AI          AIConfig             `mapstructure:"ai"`
	Server      ServerConfig         `mapstructure:"server"`
	Logging     LoggingConfig        `mapstructure:"logging"`
	HeadersFile string               `mapstructure:"headers_file"`
	OutputDir   string               `mapstructure:"output_dir"`

	// 实际读取的配置文件, 未找到时为空
	file string
}

// FetchConfig 抓取配置
type FetchConfig struct {
	Parallelism int `mapstructure:"parallelism"` // 平台并发数, 1 为顺序执行
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // memory | redis
	TTL     time.Duration `mapstructure:"ttl"`
	Size    int           `mapstructure:"size"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis缓存后端配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// AIConfig 大模型简报配置 (OpenAI兼容接口, 默认智谱)
type AIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// Load 加载配置文件
// 优先级: 默认值 < 配置文件 < .env / 环境变量
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取.env失败: %w", err)
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".trendboard"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容智谱SDK的环境变量名
	_ = v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "ZHIPUAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{
			FilePath: v.ConfigFileUsed(),
			Cause:    fmt.Errorf("配置绑定失败: %w", err),
		}
	}
	config.file = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("network.cloud_mode", true)
	v.SetDefault("network.proxy_host", models.DefaultProxyHost)
	v.SetDefault("network.proxy_port", "")
	v.SetDefault("network.timeout", models.DefaultFetchTimeout)

	v.SetDefault("fetch.parallelism", len(models.AllPlatforms))

	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.size", 64)
	v.SetDefault("cache.redis.addr", "127.0.0.1:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.prefix", "trendboard:platform:")

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://open.bigmodel.cn/api/paas/v4")
	v.SetDefault("ai.model", "glm-4-flash")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	v.SetDefault("headers_file", DefaultHeadersFile)
	v.SetDefault("output_dir", "output")
}

// File 返回实际读取的配置文件路径
func (c *Config) File() string {
	return c.file
}

// Validate 验证配置
func (c *Config) Validate() error {
	var problems []string

	if err := c.Network.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Fetch.Parallelism < 1 {
		problems = append(problems, fmt.Sprintf("fetch.parallelism 必须大于0,当前值: %d", c.Fetch.Parallelism))
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		problems = append(problems, fmt.Sprintf("cache.backend 必须是 memory 或 redis,当前值: %s", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		problems = append(problems, "cache.ttl 必须大于0")
	}
	if c.Cache.Size < 1 {
		problems = append(problems, "cache.size 必须大于0")
	}
	if err := validateEndpoint(c.AI.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("ai.base_url %v", err))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 1 {
		problems = append(problems, fmt.Sprintf("ai.temperature 必须在0-1之间,当前值: %.2f", c.AI.Temperature))
	}

	if len(problems) > 0 {
		return &models.ConfigError{
			FilePath: c.file,
			Cause:    errors.New(strings.Join(problems, "; ")),
		}
	}
	return nil
}

// validateEndpoint 大模型接口地址必须是带主机名的 http(s) 绝对地址
func validateEndpoint(raw string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("不是合法的地址: %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https, 当前为 %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("缺少主机名: %q", raw)
	}
	return nil
}

// ApplyOverrides 合并命令行参数, 命令行优先于配置文件
func (c *Config) ApplyOverrides(cloudMode *bool, proxyPort *string) error {
	if cloudMode != nil {
		c.Network.CloudMode = *cloudMode
	}
	if proxyPort != nil {
		c.Network.ProxyPort = strings.TrimSpace(*proxyPort)
	}
	return c.Validate()
}
