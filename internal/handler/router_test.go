package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwlee/fininsight/internal/metrics"
)

type mockDBPinger struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDBPinger) PingContext(ctx context.Context) error {
	return m.pingFunc(ctx)
}

// TestHealthCheck_ReportsDBStatus 는 /health 가 DB 연결 상태를 반영하는지 검증한다.
func TestHealthCheck_ReportsDBStatus(t *testing.T) {
	healthy := NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		DB:                &mockDBPinger{pingFunc: func(_ context.Context) error { return nil }},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("healthy status = %d, want %d", w.Code, http.StatusOK)
	}

	unhealthy := NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		DB:                &mockDBPinger{pingFunc: func(_ context.Context) error { return errors.New("connection refused") }},
	})

	w = httptest.NewRecorder()
	unhealthy.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

// TestMetricsEndpoint_ExposedWhenGathererProvided 는 게더러 주입 시에만
// /metrics 가 노출되는지 검증한다.
func TestMetricsEndpoint_ExposedWhenGathererProvided(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	collector.RecordJobSuccess("macro-news")

	router := NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		MetricsGatherer:   reg,
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "fininsight_refresh_job_success_total") {
		t.Error("메트릭 본문에 잡 카운터가 없습니다")
	}

	// 게더러 미주입이면 /metrics 는 라우팅되지 않는다
	bare := NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
	})
	w = httptest.NewRecorder()
	bare.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("미주입 시 status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestRouter_AppliesCORSHeaders 는 라우터 전체에 CORS 헤더가 적용되는지 검증한다.
func TestRouter_AppliesCORSHeaders(t *testing.T) {
	router := NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		DB:                &mockDBPinger{pingFunc: func(_ context.Context) error { return nil }},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}
