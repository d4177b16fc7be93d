package utils

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

func TestHeaderValidator_ValidateHeader(t *testing.T) {
	validator := NewHeaderValidator()

	tests := []struct {
		name        string
		headerName  string
		headerValue string
		expectError bool
	}{
		{"合法头部", "Referer", "https://weibo.com/", false},
		{"合法Cookie", "Cookie", "b_nut=1712000000;", false},
		{"合法值-空字符串", "X-Empty", "", false},
		{"合法值-长字符串", "X-Long", strings.Repeat(" ", 8000), false},
		{"禁止头部-Host", "Host", "example.com", true},
		{"禁止头部-大小写", "content-length", "123", true},
		{"非法名称-空格", "User Agent", "x", true},
		{"非法名称-下划线", "User_Agent", "x", true},
		{"非法名称-空字符串", "", "x", true},
		{"非法值-超长", "X-TooLong", strings.Repeat("a", MaxHeaderValueLength+1), true},
		{"非法值-控制字符", "X-Bad", "value\x00with\x01null", true},
		{"非法值-中文", "X-Query", "热搜", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateHeader(tt.headerName, tt.headerValue)
			if (err != nil) != tt.expectError {
				t.Errorf("期望错误=%v, 实际错误=%v", tt.expectError, err)
			}
		})
	}
}

func TestHeaderValidator_ValidateReturnsTypedError(t *testing.T) {
	validator := NewHeaderValidator()

	headers := http.Header{}
	headers.Set("Referer", "https://www.bilibili.com/")
	headers.Set("Host", "evil.example")

	err := validator.Validate(headers)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("期望 ValidationError, 得到 %v", err)
	}
	if vErr.HeaderName != "Host" || vErr.Field != "name" {
		t.Errorf("错误详情不正确: %+v", vErr)
	}
	if !strings.Contains(vErr.Error(), "建议") {
		t.Error("禁止头部的错误信息应该包含修复建议")
	}
}

func TestRedactor(t *testing.T) {
	r := NewRedactor()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret-token-12345")
	headers.Set("Cookie", "SUB=abcdefghijklmn")
	headers.Set("X-Api-Key", "key1")
	headers.Set("Referer", "https://weibo.com/")

	got := r.Redact(headers)

	if got["Authorization"] != "Bearer ***" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["Cookie"] != "SUB=***klmn" {
		t.Errorf("Cookie = %q", got["Cookie"])
	}
	if got["X-Api-Key"] != "***" {
		t.Errorf("短密钥应该完全隐藏, 得到 %q", got["X-Api-Key"])
	}
	if got["Referer"] != "https://weibo.com/" {
		t.Errorf("普通头部不应该被脱敏, 得到 %q", got["Referer"])
	}

	s := r.RedactToString(headers)
	if !strings.HasPrefix(s, "Authorization: Bearer ***") {
		t.Errorf("RedactToString 应按名称排序, 得到 %q", s)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"sk-1234567890abcdef", "sk-1***cdef"},
		{"Bearer abc", "Bearer ***"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
