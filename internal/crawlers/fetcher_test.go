package crawlers

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/andybalholm/brotli"
)

// staticHeaders 固定返回的头部提供者
type staticHeaders http.Header

func (h staticHeaders) HeadersFor(models.Platform) (http.Header, error) {
	return http.Header(h).Clone(), nil
}

type failingHeaders struct{}

func (failingHeaders) HeadersFor(models.Platform) (http.Header, error) {
	return nil, errors.New("头部验证失败")
}

// cloudFetcher 云端模式的抓取器, 测试中使用较短超时
func cloudFetcher(opts ...FetcherOption) *Fetcher {
	opts = append([]FetcherOption{WithTimeout(2 * time.Second)}, opts...)
	return NewFetcher(models.NetworkConfig{CloudMode: true}, nil, opts...)
}

func TestFetcher_Get(t *testing.T) {
	t.Run("200返回响应体", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok-body"))
		}))
		defer srv.Close()

		body, ok := cloudFetcher().Get(context.Background(), srv.URL, RequestOptions{})
		if !ok || string(body) != "ok-body" {
			t.Errorf("期望 (ok-body, true), 实际 (%q, %v)", body, ok)
		}
	})

	tests := []struct {
		name   string
		status int
	}{
		{"404视为缺失", http.StatusNotFound},
		{"500视为缺失", http.StatusInternalServerError},
		{"201视为缺失", http.StatusCreated},
		{"403视为缺失", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))
			defer srv.Close()

			body, ok := cloudFetcher().Get(context.Background(), srv.URL, RequestOptions{})
			if ok || body != nil {
				t.Errorf("期望 (nil, false), 实际 (%q, %v)", body, ok)
			}
		})
	}

	t.Run("连接失败视为缺失", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		if _, ok := cloudFetcher().Get(context.Background(), addr, RequestOptions{}); ok {
			t.Error("连接失败应返回false")
		}
	})

	t.Run("超时视为缺失", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		start := time.Now()
		_, ok := cloudFetcher(WithTimeout(100*time.Millisecond)).Get(context.Background(), srv.URL, RequestOptions{})
		if ok {
			t.Error("超时应返回false")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("超时未生效, 耗时 %v", elapsed)
		}
	})

	t.Run("取消的上下文视为缺失", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("late"))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, ok := cloudFetcher().Get(ctx, srv.URL, RequestOptions{}); ok {
			t.Error("已取消的上下文应返回false")
		}
	})
}

func TestFetcher_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	provider := staticHeaders{
		"X-Config": {"config"},
		"X-Both":   {"config"},
	}
	f := NewFetcher(models.NetworkConfig{CloudMode: true}, provider, WithTimeout(2*time.Second))

	_, ok := f.Get(context.Background(), srv.URL, RequestOptions{
		Platform: models.PlatformBilibili,
		Headers:  http.Header{"X-Both": {"caller"}, "Referer": {"https://www.bilibili.com/"}},
	})
	if !ok {
		t.Fatal("请求应成功")
	}

	if !slices.Contains(defaultUserAgents, got.Get("User-Agent")) {
		t.Errorf("User-Agent 应来自内置池, 实际 %q", got.Get("User-Agent"))
	}
	if got.Get("Accept-Language") == "" || got.Get("Accept") == "" {
		t.Error("缺少默认 Accept/Accept-Language")
	}
	if got.Get("Accept-Encoding") != "gzip, deflate, br" {
		t.Errorf("Accept-Encoding = %q", got.Get("Accept-Encoding"))
	}
	if got.Get("X-Config") != "config" {
		t.Error("头部管理器的头部未生效")
	}
	if got.Get("X-Both") != "caller" {
		t.Errorf("调用方头部应优先, 实际 %q", got.Get("X-Both"))
	}
	if got.Get("Referer") != "https://www.bilibili.com/" {
		t.Errorf("Referer = %q", got.Get("Referer"))
	}

	t.Run("头部提供者失败视为缺失", func(t *testing.T) {
		f := NewFetcher(models.NetworkConfig{CloudMode: true}, failingHeaders{}, WithTimeout(2*time.Second))
		if _, ok := f.Get(context.Background(), srv.URL, RequestOptions{}); ok {
			t.Error("头部错误时应返回false")
		}
	})

	t.Run("自定义UA池", func(t *testing.T) {
		f := cloudFetcher(WithUserAgents("TestBot/1.0"))
		if _, ok := f.Get(context.Background(), srv.URL, RequestOptions{}); !ok {
			t.Fatal("请求应成功")
		}
		if got.Get("User-Agent") != "TestBot/1.0" {
			t.Errorf("User-Agent = %q", got.Get("User-Agent"))
		}
	})
}

func TestFetcher_Decompress(t *testing.T) {
	const payload = `{"word_list":[{"word":"科目三","hot_value":1}]}`

	t.Run("brotli", func(t *testing.T) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte(payload))
		_ = bw.Close()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(buf.Bytes())
		}))
		defer srv.Close()

		body, ok := cloudFetcher().Get(context.Background(), srv.URL, RequestOptions{})
		if !ok || string(body) != payload {
			t.Errorf("brotli解码失败: (%q, %v)", body, ok)
		}
	})

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, _ = gw.Write([]byte(payload))
		_ = gw.Close()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		}))
		defer srv.Close()

		body, ok := cloudFetcher().Get(context.Background(), srv.URL, RequestOptions{})
		if !ok || string(body) != payload {
			t.Errorf("gzip解码失败: (%q, %v)", body, ok)
		}
	})

	t.Run("zlib封装的deflate", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, _ = zw.Write([]byte(payload))
		_ = zw.Close()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "deflate")
			_, _ = w.Write(buf.Bytes())
		}))
		defer srv.Close()

		body, ok := cloudFetcher().Get(context.Background(), srv.URL, RequestOptions{})
		if !ok || string(body) != payload {
			t.Errorf("deflate解码失败: (%q, %v)", body, ok)
		}
	})
}

// newProxy 启动记录请求次数的HTTP代理
func newProxy(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("via-proxy:" + r.URL.Host))
	}))
	t.Cleanup(proxy.Close)
	return proxy, &hits
}

func proxyPort(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("解析代理地址失败: %v", err)
	}
	_, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("解析代理端口失败: %v", err)
	}
	return port
}

func TestFetcher_Proxy(t *testing.T) {
	proxy, hits := newProxy(t)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("direct"))
	}))
	defer target.Close()

	local := models.NetworkConfig{CloudMode: false, ProxyHost: "127.0.0.1", ProxyPort: proxyPort(t, proxy)}

	t.Run("本地模式且要求代理时走代理", func(t *testing.T) {
		f := NewFetcher(local, nil, WithTimeout(2*time.Second))
		body, ok := f.Get(context.Background(), "http://trends.example.test/board", RequestOptions{UseProxy: true})
		if !ok || string(body) != "via-proxy:trends.example.test" {
			t.Errorf("期望经由代理, 实际 (%q, %v)", body, ok)
		}
	})

	t.Run("未要求代理时直连", func(t *testing.T) {
		before := hits.Load()
		f := NewFetcher(local, nil, WithTimeout(2*time.Second))
		body, ok := f.Get(context.Background(), target.URL, RequestOptions{UseProxy: false})
		if !ok || string(body) != "direct" {
			t.Errorf("期望直连, 实际 (%q, %v)", body, ok)
		}
		if hits.Load() != before {
			t.Error("直连请求不应经过代理")
		}
	})

	t.Run("云端模式忽略代理", func(t *testing.T) {
		before := hits.Load()
		cloud := local
		cloud.CloudMode = true
		f := NewFetcher(cloud, nil, WithTimeout(2*time.Second))
		body, ok := f.Get(context.Background(), target.URL, RequestOptions{UseProxy: true})
		if !ok || string(body) != "direct" {
			t.Errorf("期望直连, 实际 (%q, %v)", body, ok)
		}
		if hits.Load() != before {
			t.Error("云端模式不应使用代理")
		}
	})
}

func TestFetcher_Session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/warm":
			http.SetCookie(w, &http.Cookie{Name: "SUB", Value: "visitor", Path: "/"})
			_, _ = w.Write([]byte("home"))
		case "/api":
			if c, err := r.Cookie("SUB"); err != nil || c.Value != "visitor" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte("data"))
		}
	}))
	defer srv.Close()

	f := cloudFetcher()

	if _, ok := f.Get(context.Background(), srv.URL+"/api", RequestOptions{}); ok {
		t.Error("无cookie的请求应被拒绝")
	}

	session := f.Session()
	if _, ok := session.Get(context.Background(), srv.URL+"/warm", RequestOptions{}); !ok {
		t.Fatal("预热请求失败")
	}
	body, ok := session.Get(context.Background(), srv.URL+"/api", RequestOptions{})
	if !ok || string(body) != "data" {
		t.Errorf("会话应携带预热获得的cookie, 实际 (%q, %v)", body, ok)
	}

	if _, ok := f.Session().Get(context.Background(), srv.URL+"/api", RequestOptions{}); ok {
		t.Error("新会话不应共享cookie")
	}
}

func TestFetcher_Observer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var calls []bool
	f := cloudFetcher(WithObserver(func(p models.Platform, ok bool, _ time.Duration) {
		if p != models.PlatformDouyin {
			t.Errorf("平台 = %s", p)
		}
		calls = append(calls, ok)
	}))

	f.Get(context.Background(), srv.URL, RequestOptions{Platform: models.PlatformDouyin})
	f.Get(context.Background(), srv.URL+"/missing", RequestOptions{Platform: models.PlatformDouyin})

	if len(calls) != 2 || !calls[0] || calls[1] {
		t.Errorf("回调记录 = %v, 期望 [true false]", calls)
	}
}

func TestNewFetcher_TimeoutClamped(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, models.DefaultFetchTimeout},
		{time.Second, models.MinFetchTimeout},
		{time.Minute, models.MaxFetchTimeout},
		{12 * time.Second, 12 * time.Second},
	}
	for _, tt := range tests {
		f := NewFetcher(models.NetworkConfig{Timeout: tt.in}, nil)
		if f.timeout != tt.want {
			t.Errorf("Timeout(%v) = %v, want %v", tt.in, f.timeout, tt.want)
		}
	}
}
