package models

import (
	"encoding/json"
	"time"
)

const (
	// MaxRows 每个平台最多保留的条目数
	MaxRows = 10

	// NoLink 无真实链接的占位URL (演示数据使用)
	NoLink = "#"
)

// Platform 平台标识
type Platform string

const (
	PlatformBaidu       Platform = "baidu"       // 百度热搜
	PlatformWeibo       Platform = "weibo"       // 微博热搜
	PlatformBilibili    Platform = "bilibili"    // B站排行榜
	PlatformDouyin      Platform = "douyin"      // 抖音热榜
	PlatformXiaohongshu Platform = "xiaohongshu" // 小红书
	PlatformYouTube     Platform = "youtube"     // YouTube趋势
	PlatformTwitter     Platform = "twitter"     // Twitter趋势
)

// AllPlatforms 仪表盘的固定展示顺序
var AllPlatforms = []Platform{
	PlatformWeibo,
	PlatformDouyin,
	PlatformBaidu,
	PlatformBilibili,
	PlatformXiaohongshu,
	PlatformTwitter,
	PlatformYouTube,
}

var displayNames = map[Platform]string{
	PlatformBaidu:       "百度",
	PlatformWeibo:       "微博",
	PlatformBilibili:    "B站",
	PlatformDouyin:      "抖音",
	PlatformXiaohongshu: "小红书",
	PlatformYouTube:     "YouTube",
	PlatformTwitter:     "Twitter",
}

// DisplayName 返回平台的中文展示名,未知平台原样返回
func (p Platform) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}

// IsOverseas 海外平台需要代理或云端部署才会抓取
func (p Platform) IsOverseas() bool {
	return p == PlatformYouTube || p == PlatformTwitter
}

// IsKnown 是否为内置平台
func (p Platform) IsKnown() bool {
	_, ok := displayNames[p]
	return ok
}

// ParsePlatform 按标识或中文名查找平台
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	if p.IsKnown() {
		return p, true
	}
	for id, name := range displayNames {
		if name == s {
			return id, true
		}
	}
	return "", false
}

// TrendRow 一条热榜条目
type TrendRow struct {
	Rank   int    `json:"rank"`             // 从1开始的排名
	Title  string `json:"title"`            // 标题
	URL    string `json:"url"`              // 链接, "#" 表示无链接
	Heat   string `json:"heat,omitempty"`   // 热度/播放量
	Author string `json:"author,omitempty"` // UP主 (仅视频排行榜)
	Note   string `json:"note,omitempty"`   // 附注
	IsMock bool   `json:"is_mock"`          // 是否为演示数据
}

// ResultState 单个平台在一次刷新中的终态
type ResultState string

const (
	StateLive    ResultState = "live"    // 实时抓取成功
	StateMocked  ResultState = "mocked"  // 抓取失败,已替换为演示数据
	StateSkipped ResultState = "skipped" // 未抓取 (海外平台需代理)
)

// PlatformResult 单个平台的结果集
type PlatformResult struct {
	Platform  Platform    `json:"platform"`
	State     ResultState `json:"state"`
	Rows      []TrendRow  `json:"rows"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// IsMock 结果是否为演示数据
func (r PlatformResult) IsMock() bool {
	return r.State == StateMocked
}

// IsEmpty 空结果在界面上显示为"暂无数据"或"需代理",与演示数据不同
func (r PlatformResult) IsEmpty() bool {
	return len(r.Rows) == 0
}

// Titles 返回按排名排列的标题列表
func (r PlatformResult) Titles() []string {
	titles := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		titles = append(titles, row.Title)
	}
	return titles
}

// Clone 深拷贝,缓存与快照之间不共享切片
func (r PlatformResult) Clone() PlatformResult {
	out := r
	if r.Rows != nil {
		out.Rows = make([]TrendRow, len(r.Rows))
		copy(out.Rows, r.Rows)
	}
	return out
}

// Normalize 重新编号并统一 is_mock 标记
// 排名总是 1..n 连续, 超出 MaxRows 的部分被截断
func Normalize(rows []TrendRow, isMock bool) []TrendRow {
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
	}
	out := make([]TrendRow, len(rows))
	for i, row := range rows {
		row.Rank = i + 1
		row.IsMock = isMock
		out[i] = row
	}
	return out
}

// ToJSON 序列化为JSON
func (r PlatformResult) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// PlatformResultFromJSON 从JSON反序列化
func PlatformResultFromJSON(data []byte) (PlatformResult, error) {
	var r PlatformResult
	err := json.Unmarshal(data, &r)
	return r, err
}
