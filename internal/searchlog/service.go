// Package searchlog 는 종목 검색 이력의 기록과 인기 검색어 집계를 제공한다.
package searchlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jwlee/fininsight/internal/model"
	"github.com/jwlee/fininsight/internal/repository"
)

// defaultWindow 는 인기 검색어 집계 기간.
const defaultWindow = 24 * time.Hour

// Service 는 검색 로그 기록과 시간 윈도우 기반 인기 검색어 집계를 제공한다.
type Service struct {
	repo   repository.SearchLogRepository
	window time.Duration
	now    func() time.Time // 테스트에서 고정 시각 주입용
}

// NewService 는 Service 를 생성한다. 집계 윈도우는 24시간 고정.
func NewService(repo repository.SearchLogRepository) *Service {
	return &Service{
		repo:   repo,
		window: defaultWindow,
		now:    time.Now,
	}
}

// RecordSearch 는 검색어 한 건을 현재 시각으로 기록한다.
// 기록 실패는 검색 요청 자체를 실패시킬 일이 아니므로 호출자가 로그만 남기고 진행해도 된다.
func (s *Service) RecordSearch(ctx context.Context, keyword string) error {
	if err := s.repo.Insert(ctx, keyword, s.now().UTC()); err != nil {
		slog.Error("검색 로그 기록에 실패했습니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// TopKeywords 는 최근 24시간 기준 인기 검색어 상위 limit건을 반환한다.
func (s *Service) TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error) {
	since := s.now().UTC().Add(-s.window)
	return s.repo.TopKeywords(ctx, since, limit)
}
