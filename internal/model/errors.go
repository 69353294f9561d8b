// Package model 은 도메인 모델을 정의한다.
package model

import "fmt"

// APIError 는 통일 에러 포맷을 표현한다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: validation, news, stock, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeArticleNotFound  = "ARTICLE_NOT_FOUND"
	ErrCodeThemeNewsMissing = "THEME_NEWS_NOT_AVAILABLE"
	ErrCodeStockNotFound    = "STOCK_NOT_FOUND"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
)

// NewArticleNotFoundError 는 기사 미검출 에러를 생성한다.
// 오래된 id로 도착한 클릭 요청 등 정상 흐름에서도 발생한다.
func NewArticleNotFoundError(articleID int64) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("지정된 기사를 찾을 수 없습니다: %d", articleID),
		Category: "news",
		Action:   "뉴스 목록을 새로고침한 뒤 다시 시도해주세요.",
	}
}

// NewThemeNewsNotAvailableError 는 테마 기사 조회 실패 에러를 생성한다.
func NewThemeNewsNotAvailableError(theme string) *APIError {
	return &APIError{
		Code:     ErrCodeThemeNewsMissing,
		Message:  fmt.Sprintf("해당 테마의 기사를 가져올 수 없습니다: %s", theme),
		Category: "news",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}

// NewStockNotFoundError 는 종목 정보 조회 실패 에러를 생성한다.
func NewStockNotFoundError(code string) *APIError {
	return &APIError{
		Code:     ErrCodeStockNotFound,
		Message:  fmt.Sprintf("종목 정보를 가져올 수 없습니다: %s", code),
		Category: "stock",
		Action:   "종목 코드를 확인해주세요.",
	}
}

// NewInvalidRequestError 는 요청 형식 오류 에러를 생성한다.
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("잘못된 요청입니다: %s", reason),
		Category: "validation",
		Action:   "요청 형식을 확인해주세요.",
	}
}
