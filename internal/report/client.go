package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/go-resty/resty/v2"
)

// 默认使用智谱开放平台的OpenAI兼容接口
const (
	DefaultBaseURL     = "https://open.bigmodel.cn/api/paas/v4"
	DefaultModel       = "glm-4-flash"
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

var (
	// ErrMissingAPIKey 未配置API Key
	ErrMissingAPIKey = errors.New("未配置大模型 API Key")

	// ErrNoData 快照中没有任何平台数据
	ErrNoData = errors.New("没有可分析的热榜数据")
)

// Config 简报客户端配置
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client OpenAI兼容的对话补全客户端
type Client struct {
	http   *resty.Client
	config Config
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// NewClient 创建简报客户端, 空字段使用默认值
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: client, config: config}
}

// Model 返回使用的模型名
func (c *Client) Model() string {
	return c.config.Model
}

// Generate 根据快照生成Markdown格式的舆情简报
func (c *Client) Generate(ctx context.Context, agg *models.Aggregate) (string, error) {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return "", ErrMissingAPIKey
	}

	prompt, ok := BuildPrompt(agg)
	if !ok {
		return "", ErrNoData
	}

	utils.Infof("🧠 正在请求大模型 (%s) 生成舆情简报", c.config.Model)
	utils.Debugf("简报提示词长度: %d", len(prompt))

	var result chatResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.config.APIKey).
		SetBody(chatRequest{
			Model:       c.config.Model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: c.config.Temperature,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("请求大模型失败: %w", err)
	}

	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", fmt.Errorf("大模型返回错误 (HTTP %d): %s", resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("大模型响应为空")
	}

	return result.Choices[0].Message.Content, nil
}
