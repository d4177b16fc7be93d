package metrics

import (
	"testing"
	"time"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ObserveFetch(models.PlatformWeibo, true, 200*time.Millisecond)
	r.ObserveFetch(models.PlatformWeibo, false, time.Second)
	r.ObserveFetch(models.PlatformWeibo, false, time.Second)
	r.ObserveResult(models.PlatformResult{Platform: models.PlatformWeibo, State: models.StateMocked})
	r.ObserveCache(true)
	r.ObserveCache(false)
	r.ObserveCache(false)

	finished := time.Unix(1714550400, 0)
	r.ObserveBuild(3*time.Second, finished)

	if got := testutil.ToFloat64(r.FetchTotal.WithLabelValues("weibo", "failed")); got != 2 {
		t.Errorf("fetch failed = %v, 期望 2", got)
	}
	if got := testutil.ToFloat64(r.ResultsTotal.WithLabelValues("weibo", "mocked")); got != 1 {
		t.Errorf("mocked results = %v, 期望 1", got)
	}
	if got := testutil.ToFloat64(r.CacheTotal.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache miss = %v, 期望 2", got)
	}
	if got := testutil.ToFloat64(r.LastBuild); got != 1714550400 {
		t.Errorf("last build = %v", got)
	}

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "trendboard_fetch_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("Registry 中缺少 trendboard_fetch_duration_seconds")
	}
}
