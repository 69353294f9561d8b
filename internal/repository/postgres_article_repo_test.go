package repository

import "testing"

// TestPostgresArticleRepo_ImplementsInterface 는 PostgresArticleRepo 가 ArticleRepository 를 구현함을 검증한다.
func TestPostgresArticleRepo_ImplementsInterface(t *testing.T) {
	// 컴파일 타임 체크
	var _ ArticleRepository = (*PostgresArticleRepo)(nil)
}

// TestPostgresSearchLogRepo_ImplementsInterface 는 PostgresSearchLogRepo 가 SearchLogRepository 를 구현함을 검증한다.
func TestPostgresSearchLogRepo_ImplementsInterface(t *testing.T) {
	// 컴파일 타임 체크
	var _ SearchLogRepository = (*PostgresSearchLogRepo)(nil)
}
