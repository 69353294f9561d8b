// Package article 은 뉴스 기사 관리 기능을 제공한다.
package article

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwlee/fininsight/internal/model"
	"github.com/jwlee/fininsight/internal/repository"
)

// Service 는 기사 중복 제거 업서트와 조회 기능을 제공한다.
// 같은 url의 기사가 여러 수집 사이클에 걸쳐 재전달되어도 행은 한 개만 유지된다.
type Service struct {
	repo repository.ArticleRepository
}

// NewService 는 Service 를 생성한다.
func NewService(repo repository.ArticleRepository) *Service {
	return &Service{repo: repo}
}

// UpsertArticles 는 수집된 기사들을 source 태그를 찍어 저장한다.
// url이 이미 존재하는 기사는 건너뛴다(기존 행을 갱신하지 않는다 — 최초 기록 유지).
// 반환값은 이번 호출에서 실제로 새로 삽입된 건수이며 로깅/지표 용도로만 쓰인다.
func (s *Service) UpsertArticles(ctx context.Context, records []model.FetchedArticle, source string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	inserted := 0
	for _, rec := range records {
		if rec.URL == "" {
			// url이 없는 레코드는 중복 판정이 불가능하므로 저장하지 않는다
			slog.Warn("url이 없는 기사를 건너뜁니다",
				slog.String("source", source),
				slog.String("title", rec.Title),
			)
			continue
		}

		a := &model.NewsArticle{
			Title:       rec.Title,
			URL:         rec.URL,
			PublishedAt: rec.PublishedAt,
			Source:      source,
		}
		ok, err := s.repo.InsertIfAbsent(ctx, a)
		if err != nil {
			return inserted, fmt.Errorf("기사 저장에 실패했습니다: %w", err)
		}
		if ok {
			inserted++
		}
	}

	slog.Info("기사 업서트 완료",
		slog.String("source", source),
		slog.Int("fetched", len(records)),
		slog.Int("inserted", inserted),
	)

	return inserted, nil
}

// ListBySource 는 source 기준 기사 목록을 최신순으로 반환한다.
func (s *Service) ListBySource(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error) {
	return s.repo.ListBySource(ctx, source, offset, limit)
}

// IncrementClick 은 기사 클릭 수를 1 증가시킨다.
// 해당 id가 없으면 nil을 반환한다. 오래된 id로 도착한 요청의 정상 결과이다.
func (s *Service) IncrementClick(ctx context.Context, id int64) (*model.NewsArticle, error) {
	return s.repo.IncrementClick(ctx, id)
}

// TopByClick 은 클릭 수 기준 인기 기사 목록을 반환한다.
func (s *Service) TopByClick(ctx context.Context, limit int) ([]*model.NewsArticle, error) {
	return s.repo.TopByClick(ctx, limit)
}
