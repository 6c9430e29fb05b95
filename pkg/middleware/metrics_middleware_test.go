package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusMiddleware_LabelsByMatchedPattern(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	patterns := []string{"/", "/list/:channel"}
	handler := Prometheus(patterns, WithRegistry(reg))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/list/news", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/list/:channel", "200")); got != 1 {
		t.Fatalf("requests_total(/list/:channel,200)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.requestDuration.WithLabelValues("/list/:channel")); got == 0 {
		t.Fatal("expected request_duration_seconds histogram to have sample count > 0")
	}
}

func TestPrometheusMiddleware_UnmatchedAndErrorStatus(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	handler := Prometheus([]string{"/list/:channel"}, WithRegistry(reg))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/nothing/here/at/all", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("unmatched", "404")); got != 1 {
		t.Fatalf("requests_total(unmatched,404)=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_SilentHandlerCountsAsOK(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	handler := Prometheus([]string{"/"}, WithRegistry(reg))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	c := GetMetrics()
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/", "200")); got != 1 {
		t.Fatalf("requests_total(/,200)=%v, want 1", got)
	}
}

func TestMetricsRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(nil, WithRegistry(reg)) // initialize global metrics
	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}

	RecordNavigation("push")
	RecordNavigation("push")
	RecordNavigation("back")
	RecordDocLoad("fs", nil, 5*time.Millisecond)
	RecordDocLoad("fs", errors.New("missing"), time.Millisecond)
	RecordReload()
	SetActiveListeners(3)

	if got := metricCounterValue(t, c.navigations.WithLabelValues("push")); got != 2 {
		t.Fatalf("navigations_total(push)=%v, want 2", got)
	}
	if got := metricCounterValue(t, c.navigations.WithLabelValues("back")); got != 1 {
		t.Fatalf("navigations_total(back)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.docLoads.WithLabelValues("fs", "ok")); got != 1 {
		t.Fatalf("doc_loads_total(fs,ok)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.docLoads.WithLabelValues("fs", "error")); got != 1 {
		t.Fatalf("doc_loads_total(fs,error)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.docLoadDuration.WithLabelValues("fs")); got != 2 {
		t.Fatalf("doc_load_duration_seconds(fs) sample count=%v, want 2", got)
	}
	if got := metricCounterValue(t, c.reloadsTotal); got != 1 {
		t.Fatalf("reloads_total=%v, want 1", got)
	}
	if got := metricGaugeValue(t, c.activeListeners); got != 3 {
		t.Fatalf("active_listeners=%v, want 3", got)
	}
}

func TestMetricsRecordFunctions_NoopWithoutInit(t *testing.T) {
	resetGlobalMetricsForTest()

	// Must not panic when the middleware was never initialized.
	RecordNavigation("push")
	RecordDocLoad("http", nil, time.Millisecond)
	RecordReload()
	SetActiveListeners(1)

	if GetMetrics() != nil {
		t.Fatal("expected GetMetrics to return nil before initialization")
	}
}
