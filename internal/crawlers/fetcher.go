package crawlers

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/publicsuffix"
)

// 内置User-Agent池, 每次请求随机选取
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
}

// MobileUserAgent 移动端User-Agent, 用于微博移动接口
const MobileUserAgent = "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36"

// RequestOptions 单次请求选项
type RequestOptions struct {
	Platform models.Platform // 用于选择平台头部和记录指标
	UseProxy bool            // 海外平台在本地模式下走代理
	Headers  http.Header     // 调用方头部, 优先级最高
}

// FetchObserver 请求完成回调, 用于指标统计
type FetchObserver func(platform models.Platform, ok bool, elapsed time.Duration)

// Fetcher 基于Colly的单次GET抓取器
// 每次请求创建独立的collector, 平台之间不共享可变状态
type Fetcher struct {
	network    models.NetworkConfig
	headers    models.HeaderProvider
	timeout    time.Duration
	userAgents []string
	observer   FetchObserver
}

// FetcherOption Fetcher配置选项
type FetcherOption func(*Fetcher)

// WithTimeout 覆盖请求超时 (不做范围限定)
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgents 替换User-Agent池
func WithUserAgents(agents ...string) FetcherOption {
	return func(f *Fetcher) {
		if len(agents) > 0 {
			f.userAgents = agents
		}
	}
}

// WithObserver 设置请求完成回调
func WithObserver(observer FetchObserver) FetcherOption {
	return func(f *Fetcher) {
		f.observer = observer
	}
}

// NewFetcher 创建抓取器
// headers 可为nil, 此时只使用内置头部
func NewFetcher(network models.NetworkConfig, headers models.HeaderProvider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		network:    network,
		headers:    headers,
		timeout:    network.EffectiveTimeout(),
		userAgents: defaultUserAgents,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Network 返回抓取器使用的网络配置
func (f *Fetcher) Network() models.NetworkConfig {
	return f.network
}

// Get 发起一次GET请求
// 仅HTTP 200且响应体可解码时返回 (body, true); 其余情况返回 (nil, false), 原因记录为debug日志
func (f *Fetcher) Get(ctx context.Context, rawURL string, opts RequestOptions) ([]byte, bool) {
	return f.get(ctx, nil, rawURL, opts)
}

// Session 返回共享cookie的会话, 用于先预热再请求接口
func (f *Fetcher) Session() *Session {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New 目前不会返回错误
		utils.Warnf("创建cookie jar失败: %v", err)
	}
	return &Session{fetcher: f, jar: jar}
}

func (f *Fetcher) get(ctx context.Context, jar http.CookieJar, rawURL string, opts RequestOptions) ([]byte, bool) {
	start := time.Now()
	body, ok := f.do(ctx, jar, rawURL, opts)
	if f.observer != nil {
		f.observer(opts.Platform, ok, time.Since(start))
	}
	return body, ok
}

func (f *Fetcher) do(ctx context.Context, jar http.CookieJar, rawURL string, opts RequestOptions) ([]byte, bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	hdr, err := f.buildHeaders(opts)
	if err != nil {
		utils.Debugf("构建请求头失败 [%s]: %v", rawURL, err)
		return nil, false
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)
	// 显式设置Transport, 不读取 HTTP_PROXY 等环境变量
	c.WithTransport(f.transport(opts.UseProxy))
	if jar != nil {
		c.SetCookieJar(jar)
	}

	var body []byte
	ok := false

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode != http.StatusOK {
			utils.Debugf("非200响应 [%s]: %d", rawURL, r.StatusCode)
			return
		}
		decoded, err := decompressResponse(r.Headers.Get("Content-Encoding"), r.Body)
		if err != nil {
			utils.Debugf("解压响应失败 [%s]: %v", rawURL, err)
			return
		}
		body = decoded
		ok = true
	})

	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		utils.Debugf("请求失败 [%s] (状态码=%d): %v", rawURL, status, err)
	})

	if err := c.Request(http.MethodGet, rawURL, nil, nil, hdr); err != nil {
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return body, true
}

// buildHeaders 合并头部: 随机UA < 头部管理器 < 调用方
func (f *Fetcher) buildHeaders(opts RequestOptions) (http.Header, error) {
	hdr := make(http.Header)
	hdr.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])
	hdr.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json,*/*;q=0.8")
	hdr.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	if f.headers != nil {
		configured, err := f.headers.HeadersFor(opts.Platform)
		if err != nil {
			return nil, err
		}
		for name, values := range configured {
			hdr[http.CanonicalHeaderKey(name)] = values
		}
	}
	for name, values := range opts.Headers {
		hdr[http.CanonicalHeaderKey(name)] = values
	}

	// 由Fetcher统一声明, 解码见decompressResponse
	hdr.Set("Accept-Encoding", "gzip, deflate, br")
	return hdr, nil
}

// transport 为本次请求构建Transport
func (f *Fetcher) transport(useProxy bool) *http.Transport {
	t := &http.Transport{
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   f.timeout,
		ExpectContinueTimeout: time.Second,
	}

	if proxy := f.network.ProxyFor(useProxy); proxy != "" {
		if u, err := url.Parse(proxy); err == nil {
			t.Proxy = http.ProxyURL(u)
		} else {
			utils.Warnf("代理地址无效 [%s]: %v", proxy, err)
		}
	}
	return t
}

// Session 共享cookie jar的抓取会话
type Session struct {
	fetcher *Fetcher
	jar     http.CookieJar
}

// Get 在会话内发起GET请求, 响应设置的cookie对后续请求生效
func (s *Session) Get(ctx context.Context, rawURL string, opts RequestOptions) ([]byte, bool) {
	return s.fetcher.get(ctx, s.jar, rawURL, opts)
}
