// Package refresh 는 뉴스/지표의 주기 갱신 잡과 스케줄러를 제공한다.
// 잡 테이블은 {이름, 트리거, 실행 함수} 의 명시적 목록이며,
// 트리거는 고정 간격(EveryInterval) 또는 매일 정시(DailyAt) 중 하나다.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Trigger 는 잡의 다음 실행 시각을 결정한다.
type Trigger struct {
	interval time.Duration
	hour     int
	daily    bool
}

// EveryInterval 은 고정 간격 트리거를 만든다.
func EveryInterval(d time.Duration) Trigger {
	return Trigger{interval: d}
}

// DailyAt 은 매일 지정 시(로컬 시간) 트리거를 만든다.
func DailyAt(hour int) Trigger {
	return Trigger{hour: hour, daily: true}
}

// Next 는 now 이후의 다음 실행 시각을 반환한다.
func (t Trigger) Next(now time.Time) time.Time {
	if !t.daily {
		return now.Add(t.interval)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), t.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Job 은 스케줄러가 관리하는 갱신 잡 하나.
type Job struct {
	Name    string
	Trigger Trigger
	Run     func(ctx context.Context) error
}

// Metrics 는 잡 실행 결과의 계측 이벤트.
type Metrics interface {
	RecordJobSuccess(job string)
	RecordJobFailure(job string)
	RecordArticlesUpserted(count int)
	RecordProviderLatency(provider string, duration time.Duration)
}

// Scheduler 는 잡 테이블의 각 잡을 독립 고루틴에서 주기 실행한다.
// 잡마다 고루틴이 하나뿐이므로 같은 잡의 실행이 겹치는 일은 없다.
// 실패한 사이클은 로그만 남기고 다음 트리거에서 재시도한다.
type Scheduler struct {
	jobs    []Job
	logger  *slog.Logger
	metrics Metrics
}

// NewScheduler 는 Scheduler 를 생성한다. metrics 는 nil 이어도 된다.
func NewScheduler(jobs []Job, logger *slog.Logger, metrics Metrics) *Scheduler {
	return &Scheduler{
		jobs:    jobs,
		logger:  logger,
		metrics: metrics,
	}
}

// Start 는 모든 잡을 기동 직후 1회 실행한 뒤 각자의 트리거 주기로 반복 실행한다.
// 컨텍스트가 취소될 때까지 블록한다.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("갱신 스케줄러를 시작했습니다",
		slog.Int("job_count", len(s.jobs)),
	)

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.runLoop(ctx, j)
		}(job)
	}
	wg.Wait()

	s.logger.Info("갱신 스케줄러를 중지했습니다")
}

// runLoop 는 잡 하나를 기동 직후 1회, 이후 트리거 주기로 실행한다.
func (s *Scheduler) runLoop(ctx context.Context, j Job) {
	s.runJob(ctx, j)

	for {
		timer := time.NewTimer(time.Until(j.Trigger.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runJob(ctx, j)
		}
	}
}

// runJob 은 잡을 1회 실행하고 결과를 로그와 메트릭으로 남긴다.
func (s *Scheduler) runJob(ctx context.Context, j Job) {
	start := time.Now()

	if err := j.Run(ctx); err != nil {
		s.logger.Error("갱신 잡 실행에 실패했습니다",
			slog.String("job", j.Name),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordJobFailure(j.Name)
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RecordJobSuccess(j.Name)
	}
	s.logger.Info("갱신 잡이 완료되었습니다",
		slog.String("job", j.Name),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
}
