package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jwlee/fininsight/internal/model"
)

// PostgresSearchLogRepo 는 PostgreSQL을 사용한 검색 로그 리포지토리.
type PostgresSearchLogRepo struct {
	db *sql.DB
}

// NewPostgresSearchLogRepo 는 PostgresSearchLogRepo 를 생성한다.
func NewPostgresSearchLogRepo(db *sql.DB) *PostgresSearchLogRepo {
	return &PostgresSearchLogRepo{db: db}
}

// Insert 는 검색어 한 건을 기록한다. 무조건 추가하며 중복 검사를 하지 않는다.
func (r *PostgresSearchLogRepo) Insert(ctx context.Context, keyword string, searchedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_log (keyword, searched_at) VALUES ($1, $2)`,
		keyword, searchedAt,
	)
	if err != nil {
		return fmt.Errorf("검색 로그 기록에 실패했습니다: %w", err)
	}
	return nil
}

// TopKeywords 는 searched_at >= since 범위에서 검색어별 건수를 집계한다.
// 건수 내림차순, 동률은 먼저 기록된 검색어(MIN(id))가 앞선다.
func (r *PostgresSearchLogRepo) TopKeywords(ctx context.Context, since time.Time, limit int) ([]model.KeywordCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, COUNT(*) AS cnt
		 FROM search_log
		 WHERE searched_at >= $1
		 GROUP BY keyword
		 ORDER BY cnt DESC, MIN(id) ASC
		 LIMIT $2`,
		since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("인기 검색어 집계에 실패했습니다: %w", err)
	}
	defer rows.Close()

	var results []model.KeywordCount
	for rows.Next() {
		var kc model.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
			return nil, fmt.Errorf("인기 검색어 행 읽기에 실패했습니다: %w", err)
		}
		results = append(results, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("인기 검색어 목록 순회에 실패했습니다: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ SearchLogRepository = (*PostgresSearchLogRepo)(nil)
