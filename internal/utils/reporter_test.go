package utils

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

func TestReporter_SaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	agg := models.NewAggregate(models.AllPlatforms, []models.PlatformResult{
		{Platform: models.PlatformBaidu, State: models.StateLive, Rows: []models.TrendRow{
			{Rank: 1, Title: "中国空间站", URL: "https://www.baidu.com/s?wd=x", Heat: "4950000"},
		}},
		{Platform: models.PlatformTwitter, State: models.StateSkipped},
	})

	path, err := NewReporter(dir).SaveSnapshot(agg, "")
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("导出路径 = %s, 期望在 %s 下", path, dir)
	}

	report, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if report.ID != agg.ID {
		t.Errorf("ID = %s, want %s", report.ID, agg.ID)
	}
	if report.Stats.Live != 1 || report.Stats.Skipped != 1 {
		t.Errorf("Stats = %+v", report.Stats)
	}
	if len(report.Results) != 2 || report.Results[0].Platform != models.PlatformBaidu {
		t.Errorf("Results 顺序或数量错误: %+v", report.Results)
	}
}

func TestReporter_SaveSnapshotAbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "out.json")
	agg := models.NewAggregate(models.AllPlatforms, nil)

	path, err := NewReporter("ignored").SaveSnapshot(agg, target)
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if path != target {
		t.Errorf("path = %s, want %s", path, target)
	}
}

func TestParsePlatforms(t *testing.T) {
	t.Run("为空返回全部平台", func(t *testing.T) {
		got, err := ParsePlatforms(nil)
		if err != nil || len(got) != len(models.AllPlatforms) {
			t.Errorf("ParsePlatforms(nil) = %v, %v", got, err)
		}
	})

	t.Run("逗号分隔并去重", func(t *testing.T) {
		got, err := ParsePlatforms([]string{"weibo,微博", "B站"})
		if err != nil {
			t.Fatalf("ParsePlatforms() error = %v", err)
		}
		if len(got) != 2 || got[0] != models.PlatformWeibo || got[1] != models.PlatformBilibili {
			t.Errorf("ParsePlatforms() = %v", got)
		}
	})

	t.Run("未知平台", func(t *testing.T) {
		if _, err := ParsePlatforms([]string{"kuaishou"}); err == nil {
			t.Error("未知平台应该返回错误")
		}
	})
}

func TestNewProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 3, "抓取中")
	for i := 0; i < 3; i++ {
		if err := bar.Add(1); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if !bar.IsFinished() {
		t.Error("进度条应该已完成")
	}
}
