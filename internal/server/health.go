package server

import (
	"runtime"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// 内存压力等级
const (
	PressureLow    = "low"
	PressureMedium = "medium"
	PressureHigh   = "high"
)

// HealthStatus 服务健康状态
type HealthStatus struct {
	Status         string     `json:"status"`
	Uptime         string     `json:"uptime"`
	Goroutines     int        `json:"goroutines"`
	HeapAlloc      uint64     `json:"heap_alloc_bytes"`
	TotalMemory    uint64     `json:"total_memory_bytes,omitempty"`
	UsedPercent    float64    `json:"memory_used_percent,omitempty"`
	MemoryPressure string     `json:"memory_pressure"`
	CPUPercent     float64    `json:"cpu_percent"`
	LastBuild      *time.Time `json:"last_build,omitempty"`
}

// HealthProbe 采集进程和系统资源状态
type HealthProbe struct {
	startedAt time.Time
}

// NewHealthProbe 创建健康探针
func NewHealthProbe() *HealthProbe {
	return &HealthProbe{startedAt: time.Now()}
}

// Check 采集一次资源状态
// 系统指标获取失败时只记录日志, 不影响健康状态
func (h *HealthProbe) Check() HealthStatus {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	status := HealthStatus{
		Status:         "ok",
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAlloc:      ms.HeapAlloc,
		MemoryPressure: PressureLow,
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		utils.Debugf("获取系统内存失败: %v", err)
	} else {
		status.TotalMemory = vm.Total
		status.UsedPercent = vm.UsedPercent
		status.MemoryPressure = memoryPressure(vm.UsedPercent)
	}

	// interval为0时与上次调用比较, 不阻塞请求
	if percents, err := cpu.Percent(0, false); err != nil {
		utils.Debugf("获取CPU使用率失败: %v", err)
	} else if len(percents) > 0 {
		status.CPUPercent = percents[0]
	}

	return status
}

func memoryPressure(usedPercent float64) string {
	switch {
	case usedPercent >= 90:
		return PressureHigh
	case usedPercent >= 70:
		return PressureMedium
	default:
		return PressureLow
	}
}
