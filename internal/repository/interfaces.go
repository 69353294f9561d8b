// Package repository 는 데이터 영속화 인터페이스를 정의한다.
package repository

import (
	"context"
	"time"

	"github.com/jwlee/fininsight/internal/model"
)

// ArticleRepository 는 뉴스 기사 데이터의 영속화 인터페이스.
type ArticleRepository interface {
	// InsertIfAbsent 는 url이 존재하지 않을 때만 기사를 삽입한다.
	// 실제로 삽입되면 true를 반환한다. 같은 url의 행이 이미 있으면 아무것도 하지 않고 false를 반환한다.
	// 동시 잡 간의 중복 방지는 url UNIQUE 제약이 최종 안전망이다.
	InsertIfAbsent(ctx context.Context, article *model.NewsArticle) (bool, error)

	// ListBySource 는 source 기준으로 기사를 id 내림차순(최신순)으로 조회한다.
	ListBySource(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error)

	// IncrementClick 은 기사 클릭 수를 원자적으로 1 증가시키고 갱신된 행을 반환한다.
	// 해당 id가 없으면 nil을 반환한다(에러가 아님).
	IncrementClick(ctx context.Context, id int64) (*model.NewsArticle, error)

	// TopByClick 은 클릭 수 내림차순으로 기사를 조회한다.
	TopByClick(ctx context.Context, limit int) ([]*model.NewsArticle, error)
}

// SearchLogRepository 는 검색 로그의 영속화 인터페이스. 추가 전용이며 수정/삭제하지 않는다.
type SearchLogRepository interface {
	// Insert 는 검색어 한 건을 기록한다.
	Insert(ctx context.Context, keyword string, searchedAt time.Time) error

	// TopKeywords 는 searched_at >= since 범위에서 검색어별 건수를 집계해
	// 건수 내림차순으로 반환한다. 동률은 먼저 기록된 검색어가 앞선다.
	TopKeywords(ctx context.Context, since time.Time, limit int) ([]model.KeywordCount, error)
}
