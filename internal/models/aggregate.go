package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Aggregate 一次刷新周期的全平台快照
// 构建完成后不再修改,访问方法都返回副本
type Aggregate struct {
	ID        string
	CreatedAt time.Time
	order     []Platform
	results   map[Platform]PlatformResult
}

// NewAggregate 按给定顺序组装快照
func NewAggregate(order []Platform, results []PlatformResult) *Aggregate {
	agg := &Aggregate{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		order:     make([]Platform, 0, len(order)),
		results:   make(map[Platform]PlatformResult, len(results)),
	}
	for _, r := range results {
		agg.results[r.Platform] = r.Clone()
	}
	for _, p := range order {
		if _, ok := agg.results[p]; ok {
			agg.order = append(agg.order, p)
		}
	}
	return agg
}

// Platforms 返回展示顺序
func (a *Aggregate) Platforms() []Platform {
	out := make([]Platform, len(a.order))
	copy(out, a.order)
	return out
}

// Get 返回指定平台的结果副本
func (a *Aggregate) Get(p Platform) (PlatformResult, bool) {
	r, ok := a.results[p]
	if !ok {
		return PlatformResult{}, false
	}
	return r.Clone(), true
}

// Results 按展示顺序返回全部结果
func (a *Aggregate) Results() []PlatformResult {
	out := make([]PlatformResult, 0, len(a.order))
	for _, p := range a.order {
		out = append(out, a.results[p].Clone())
	}
	return out
}

// Stats 统计各状态的平台数量
func (a *Aggregate) Stats() CycleStats {
	stats := CycleStats{Platforms: len(a.order)}
	for _, p := range a.order {
		r := a.results[p]
		switch r.State {
		case StateLive:
			stats.Live++
		case StateMocked:
			stats.Mocked++
		case StateSkipped:
			stats.Skipped++
		}
		stats.Rows += len(r.Rows)
	}
	return stats
}

// CycleStats 刷新周期统计
type CycleStats struct {
	Platforms int `json:"platforms"` // 平台数
	Live      int `json:"live"`      // 实时数据平台数
	Mocked    int `json:"mocked"`    // 演示数据平台数
	Skipped   int `json:"skipped"`   // 未抓取平台数
	Rows      int `json:"rows"`      // 总条目数
}

// AggregateReport 快照的导出格式
type AggregateReport struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Stats     CycleStats       `json:"stats"`
	Results   []PlatformResult `json:"results"`
}

// Report 生成导出结构
func (a *Aggregate) Report() AggregateReport {
	return AggregateReport{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Stats:     a.Stats(),
		Results:   a.Results(),
	}
}

// ToJSON 序列化为JSON
func (r *AggregateReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *AggregateReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
