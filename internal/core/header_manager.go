package core

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/trendboard/internal/config"
	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
)

// HeaderManager 管理HTTP请求头部的生命周期
// 实现 models.HeaderProvider 接口, 可被多个平台并发调用
type HeaderManager struct {
	// defaults 系统默认头部 (硬编码)
	defaults http.Header

	// global 配置文件中对所有平台生效的头部
	global http.Header

	// platforms 配置文件中按平台覆盖的头部
	platforms map[models.Platform]http.Header

	// cli 从命令行参数解析的头部
	cli http.Header

	validator    *utils.HeaderValidator
	redactor     *utils.Redactor
	configLoader *config.HeaderConfigLoader

	mu      sync.Mutex
	loaded  bool
	loadErr error
}

// NewHeaderManager 创建头部管理器
// 参数:
//   - configFile: 头部配置文件路径 (为空则使用默认路径)
//   - cliHeaders: 命令行传递的头部字符串列表
func NewHeaderManager(configFile string, cliHeaders []string) (*HeaderManager, error) {
	hm := &HeaderManager{
		defaults:     getDefaultHeaders(),
		global:       make(http.Header),
		platforms:    make(map[models.Platform]http.Header),
		cli:          make(http.Header),
		validator:    utils.NewHeaderValidator(),
		redactor:     utils.NewRedactor(),
		configLoader: config.NewHeaderConfigLoader(configFile),
	}

	if len(cliHeaders) > 0 {
		parsed, err := models.CliHeaders(cliHeaders).Parse()
		if err != nil {
			return nil, err
		}
		hm.cli = parsed
	}

	return hm, nil
}

// getDefaultHeaders 返回系统默认头部
// User-Agent 由抓取器随机轮换, 不在此固定
func getDefaultHeaders() http.Header {
	return http.Header{
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,application/json,*/*;q=0.8"},
		"Accept-Language": []string{"zh-CN,zh;q=0.9,en;q=0.8"},
	}
}

// LoadConfig 加载头部配置文件, 只执行一次
func (hm *HeaderManager) LoadConfig() error {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hm.loaded {
		return hm.loadErr
	}
	hm.loaded = true

	headerConfig, err := hm.configLoader.LoadConfig()
	if err != nil {
		utils.Errorf("加载HTTP头部配置失败: %v", err)
		hm.loadErr = err
		return err
	}

	for name, value := range headerConfig.Headers {
		hm.global.Set(name, value)
	}
	for name, headers := range headerConfig.Platforms {
		platform, _ := models.ParsePlatform(name)
		h := make(http.Header, len(headers))
		for k, v := range headers {
			h.Set(k, v)
		}
		hm.platforms[platform] = h
	}

	if len(hm.global) > 0 || len(hm.platforms) > 0 {
		utils.Debugf("成功加载HTTP头部配置: 全局%d个, 平台%d个, %s",
			len(hm.global), len(hm.platforms), hm.redactor.RedactToString(hm.global))
	}

	if err := hm.validate(); err != nil {
		hm.loadErr = err
		return err
	}
	return nil
}

// validate 验证所有头部的合法性
// 验证顺序: 默认 → 配置 → 命令行
func (hm *HeaderManager) validate() error {
	if err := hm.validator.Validate(hm.defaults); err != nil {
		utils.Errorf("默认头部验证失败: %v", err)
		return err
	}
	if err := hm.validator.Validate(hm.global); err != nil {
		utils.Errorf("配置文件头部验证失败: %v", err)
		return err
	}
	for platform, h := range hm.platforms {
		if err := hm.validator.Validate(h); err != nil {
			utils.Errorf("配置文件[%s]头部验证失败: %v", platform, err)
			return err
		}
	}
	if err := hm.validator.Validate(hm.cli); err != nil {
		utils.Errorf("命令行头部验证失败: %v", err)
		return err
	}

	utils.Debugf("所有HTTP头部验证通过")
	return nil
}

// MergedHeaders 按优先级合并头部 (默认 < 全局配置 < 平台配置 < 命令行)
func (hm *HeaderManager) MergedHeaders(platform models.Platform) http.Header {
	result := make(http.Header)
	layers := []http.Header{hm.defaults, hm.global, hm.platforms[platform], hm.cli}
	for _, layer := range layers {
		for name, values := range layer {
			result[name] = append([]string(nil), values...)
		}
	}
	return result
}

// SafeHeaders 返回脱敏后的合并头部 (用于日志)
func (hm *HeaderManager) SafeHeaders(platform models.Platform) map[string]string {
	return hm.redactor.Redact(hm.MergedHeaders(platform))
}

// HeadersFor 实现 models.HeaderProvider 接口
func (hm *HeaderManager) HeadersFor(platform models.Platform) (http.Header, error) {
	if err := hm.LoadConfig(); err != nil {
		return nil, err
	}
	return hm.MergedHeaders(platform), nil
}
