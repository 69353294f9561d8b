package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jwlee/fininsight/internal/model"
)

// PostgresArticleRepo 는 PostgreSQL을 사용한 기사 리포지토리.
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo 는 PostgresArticleRepo 를 생성한다.
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// InsertIfAbsent 는 url이 존재하지 않을 때만 기사를 삽입한다.
// ON CONFLICT DO NOTHING 이 동시 삽입 경쟁의 안전망이다. 중복 삽입 시도는
// 에러가 아니라 false 로 흡수된다. 기존 행의 title/published_at 은 갱신하지 않는다.
func (r *PostgresArticleRepo) InsertIfAbsent(ctx context.Context, article *model.NewsArticle) (bool, error) {
	var publishedAt sql.NullTime
	if !article.PublishedAt.IsZero() {
		publishedAt = sql.NullTime{Time: article.PublishedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO articles (title, url, published_at, source, click_count)
		 VALUES ($1, $2, $3, $4, 0)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id, created_at`,
		article.Title, article.URL, publishedAt, article.Source,
	).Scan(&article.ID, &article.CreatedAt)

	if err == sql.ErrNoRows {
		// 충돌로 삽입이 생략된 경우
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("기사 삽입에 실패했습니다: %w", err)
	}
	return true, nil
}

// ListBySource 는 source 기준으로 기사를 id 내림차순(최신순)으로 조회한다.
func (r *PostgresArticleRepo) ListBySource(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, url, published_at, source, click_count, created_at
		 FROM articles
		 WHERE source = $1
		 ORDER BY id DESC
		 OFFSET $2 LIMIT $3`,
		source, offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("기사 목록 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// IncrementClick 은 기사 클릭 수를 원자적으로 1 증가시키고 갱신된 행을 반환한다.
// 해당 id가 없으면 nil을 반환한다.
func (r *PostgresArticleRepo) IncrementClick(ctx context.Context, id int64) (*model.NewsArticle, error) {
	article := &model.NewsArticle{}
	var publishedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`UPDATE articles SET click_count = click_count + 1
		 WHERE id = $1
		 RETURNING id, title, url, published_at, source, click_count, created_at`,
		id,
	).Scan(
		&article.ID, &article.Title, &article.URL, &publishedAt,
		&article.Source, &article.ClickCount, &article.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("클릭 수 갱신에 실패했습니다: %w", err)
	}

	if publishedAt.Valid {
		article.PublishedAt = publishedAt.Time
	}
	return article, nil
}

// TopByClick 은 클릭 수 내림차순으로 기사를 조회한다. 동률은 최신 기사가 앞선다.
func (r *PostgresArticleRepo) TopByClick(ctx context.Context, limit int) ([]*model.NewsArticle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, url, published_at, source, click_count, created_at
		 FROM articles
		 ORDER BY click_count DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("인기 기사 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// scanArticles 는 기사 조회 결과 행들을 모델로 변환한다.
func scanArticles(rows *sql.Rows) ([]*model.NewsArticle, error) {
	var articles []*model.NewsArticle
	for rows.Next() {
		article := &model.NewsArticle{}
		var publishedAt sql.NullTime

		if err := rows.Scan(
			&article.ID, &article.Title, &article.URL, &publishedAt,
			&article.Source, &article.ClickCount, &article.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("기사 행 읽기에 실패했습니다: %w", err)
		}

		if publishedAt.Valid {
			article.PublishedAt = publishedAt.Time
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("기사 목록 순회에 실패했습니다: %w", err)
	}

	return articles, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
