package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 快照导出器
type Reporter struct {
	outputDir string
}

// NewReporter 创建导出器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// SnapshotFilename 默认导出文件名, 按快照时间命名
func SnapshotFilename(agg *models.Aggregate) string {
	return fmt.Sprintf("trends_%s.json", agg.CreatedAt.Format("20060102_150405"))
}

// SaveSnapshot 将快照写入JSON文件
// filename为空时使用SnapshotFilename; 绝对路径直接使用
func (r *Reporter) SaveSnapshot(agg *models.Aggregate, filename string) (string, error) {
	if filename == "" {
		filename = SnapshotFilename(agg)
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.outputDir, filename)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("创建导出目录失败: %w", err)
	}

	report := agg.Report()
	if err := r.saveJSON(path, &report); err != nil {
		return "", err
	}

	Infof("✅ 快照已导出: %s", path)
	return path, nil
}

// LoadSnapshot 读取导出的快照
func LoadSnapshot(path string) (*models.AggregateReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取快照失败: %w", err)
	}
	var report models.AggregateReport
	if err := report.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return &report, nil
}

func (r *Reporter) saveJSON(path string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入快照文件失败: %w", err)
	}
	Debugf("保存快照: %s", path)
	return nil
}

// NewProgressBar 创建平台抓取进度条
func NewProgressBar(w io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
