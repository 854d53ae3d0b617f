package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/product_categories", 200, 250*time.Millisecond)
	m.ObserveRequest("GET", "/product_categories", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	m.IncUpload("category_hero", "ok")

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/product_categories", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")); got != 1 {
		t.Fatalf("expected unknown route counter=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("category_hero", "ok")); got != 1 {
		t.Fatalf("expected upload counter=1, got %f", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	sum, err := fetchHistogramSum(mfs, "backoffice_http_request_duration_seconds", "route", "/product_categories")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if sum <= 0.25 {
		t.Fatalf("expected duration sum > 0.25, got %f", sum)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Second)
	m.IncUpload("x", "ok")

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("GET", "/", 200, time.Second)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
