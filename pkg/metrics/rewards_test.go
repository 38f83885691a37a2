package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRewardMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewRewardMetrics(reg, "newsletter_subscribe")
	metrics.ObserveDuration("newsletter_subscribe", 250*time.Millisecond)
	metrics.IncOutcome("newsletter_subscribe", "success")
	metrics.IncOutcome("newsletter_subscribe", "success")
	metrics.IncOutcome("", "timeout")
	metrics.AddDistributed("newsletter_subscribe", 25)
	metrics.AddDistributed("newsletter_subscribe", -3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "loyalteez_events_total", map[string]string{"event_type": "newsletter_subscribe", "outcome": "success"}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "loyalteez_events_total", map[string]string{"event_type": "unknown", "outcome": "timeout"}); err != nil {
		t.Fatalf("fetch timeout: %v", err)
	} else if got != 1 {
		t.Fatalf("expected timeout=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "loyalteez_ltz_distributed_total", map[string]string{"event_type": "newsletter_subscribe"}); err != nil {
		t.Fatalf("fetch distributed: %v", err)
	} else if got != 25 {
		t.Fatalf("expected distributed=25, got %f", got)
	}

	mf := findMetricFamily(mfs, "loyalteez_request_duration_seconds")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected one duration series")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestRewardMetricsNilSafe(t *testing.T) {
	var m *RewardMetrics
	m.IncOutcome("a", "b")
	m.ObserveDuration("a", time.Second)
	m.AddDistributed("a", 1)

	noop := NewRewardMetrics(nil)
	noop.IncOutcome("a", "b")
}

func TestRewardMetricsFoldsUnknownEventTypes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewRewardMetrics(reg, "newsletter_subscribe", "profile_completed")
	for i := 0; i < 50; i++ {
		eventType := fmt.Sprintf("made_up_%d", i)
		metrics.IncOutcome(eventType, "rejected")
		metrics.ObserveDuration(eventType, time.Millisecond)
	}
	metrics.IncOutcome("profile_completed", "success")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if mf := findMetricFamily(mfs, "loyalteez_events_total"); mf == nil || len(mf.GetMetric()) != 2 {
		t.Fatalf("expected two outcome series, got %v", mf)
	}
	if got, err := fetchCounterValue(mfs, "loyalteez_events_total", map[string]string{"event_type": OtherEventType, "outcome": "rejected"}); err != nil {
		t.Fatalf("fetch other: %v", err)
	} else if got != 50 {
		t.Fatalf("expected other=50, got %f", got)
	}
	if mf := findMetricFamily(mfs, "loyalteez_request_duration_seconds"); mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected one duration series")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
