// Package metrics 는 Prometheus 메트릭 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집 인터페이스.
// 갱신 잡과 인사이트 파이프라인에서 사용한다.
type MetricsCollector interface {
	RecordJobSuccess(job string)
	RecordJobFailure(job string)
	RecordArticlesUpserted(count int)
	RecordProviderLatency(provider string, duration time.Duration)
	RecordLLMFailure(stage string)
	RecordDegradedInsight()
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	jobSuccess       *prometheus.CounterVec
	jobFail          *prometheus.CounterVec
	articlesUpserted prometheus.Counter
	providerLatency  *prometheus.HistogramVec
	llmFail          *prometheus.CounterVec
	degradedInsight  prometheus.Counter
}

// NewCollector 는 새 Collector 를 생성하고 지정된 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		jobSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fininsight_refresh_job_success_total",
			Help: "갱신 잡 성공 합계 (잡 이름별)",
		}, []string{"job"}),
		jobFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fininsight_refresh_job_fail_total",
			Help: "갱신 잡 실패 합계 (잡 이름별)",
		}, []string{"job"}),
		articlesUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fininsight_articles_upserted_total",
			Help: "새로 저장된 기사 합계",
		}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fininsight_provider_latency_seconds",
			Help:    "외부 제공자 호출 레이턴시 (초)",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		llmFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fininsight_llm_fail_total",
			Help: "LLM 생성 호출 실패 합계 (단계별)",
		}, []string{"stage"}),
		degradedInsight: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fininsight_degraded_insight_total",
			Help: "대체 문구로 강등된 인사이트 단계 합계",
		}),
	}

	reg.MustRegister(
		c.jobSuccess,
		c.jobFail,
		c.articlesUpserted,
		c.providerLatency,
		c.llmFail,
		c.degradedInsight,
	)

	return c
}

// RecordJobSuccess 는 갱신 잡의 성공 사이클을 기록한다.
func (c *Collector) RecordJobSuccess(job string) {
	c.jobSuccess.WithLabelValues(job).Inc()
}

// RecordJobFailure 는 갱신 잡의 실패 사이클을 기록한다.
func (c *Collector) RecordJobFailure(job string) {
	c.jobFail.WithLabelValues(job).Inc()
}

// RecordArticlesUpserted 는 새로 저장된 기사 수를 기록한다.
func (c *Collector) RecordArticlesUpserted(count int) {
	c.articlesUpserted.Add(float64(count))
}

// RecordProviderLatency 는 외부 제공자 호출의 레이턴시를 기록한다.
func (c *Collector) RecordProviderLatency(provider string, duration time.Duration) {
	c.providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordLLMFailure 는 LLM 생성 호출 실패를 기록한다.
func (c *Collector) RecordLLMFailure(stage string) {
	c.llmFail.WithLabelValues(stage).Inc()
}

// RecordDegradedInsight 는 대체 문구로 강등된 인사이트 단계를 기록한다.
func (c *Collector) RecordDegradedInsight() {
	c.degradedInsight.Inc()
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
