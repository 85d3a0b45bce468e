package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

func TestNewRegistry(t *testing.T) {
	reg, m := NewRegistry()
	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	m.RecordBatch(true, 150*time.Millisecond)
	m.Scenarios.WithLabelValues("ranked").Add(3)

	count, err := testutil.GatherAndCount(reg, "testrank_batches_total", "testrank_scenarios_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 series, got %d", count)
	}
}

func TestRecordAdvisor(t *testing.T) {
	_, m := NewRegistry()

	m.RecordAdvisor(nil)
	m.RecordAdvisor([]*errors.RankError{errors.NewAdvisorError(fmt.Errorf("timeout"))})
	m.RecordAdvisor([]*errors.RankError{
		errors.NewAdvisorMalformedError("a", "severity 9 outside [1,5]"),
		errors.NewAdvisorMalformedError("b", "unknown scenario"),
	})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"successful calls", testutil.ToFloat64(m.AdvisorCalls.WithLabelValues("true")), 2},
		{"failed calls", testutil.ToFloat64(m.AdvisorCalls.WithLabelValues("false")), 1},
		{"failure fallbacks", testutil.ToFloat64(m.AdvisorFallbacks.WithLabelValues("ADVISOR-001")), 1},
		{"malformed fallbacks", testutil.ToFloat64(m.AdvisorFallbacks.WithLabelValues("ADVISOR-002")), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRecordError(t *testing.T) {
	_, m := NewRegistry()

	m.RecordError("dependency", errors.NewCycleError("a"))
	m.RecordError("engine", fmt.Errorf("plain"))
	m.RecordError("engine", nil)

	if v := testutil.ToFloat64(m.Errors.WithLabelValues("DEP-001", "dependency")); v != 1 {
		t.Errorf("expected 1 cycle error, got %v", v)
	}
	if v := testutil.ToFloat64(m.Errors.WithLabelValues("unknown", "engine")); v != 1 {
		t.Errorf("expected 1 uncoded error, got %v", v)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveStage("risk", time.Second)
	m.RecordError("engine", fmt.Errorf("x"))
	m.RecordBatch(false, time.Second)
	m.RecordAdvisor(nil)
}

func TestWriteTextfile(t *testing.T) {
	reg, m := NewRegistry()
	m.ObserveStage("risk", 20*time.Millisecond)
	m.DependencyCycles.Add(2)

	path := filepath.Join(t.TempDir(), "out", "testrank.prom")
	if err := WriteTextfile(reg, path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	body := string(data)
	for _, want := range []string{
		"testrank_stage_duration_seconds_count{stage=\"risk\"} 1",
		"testrank_dependency_unresolved_total 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in textfile output", want)
		}
	}
}
