// Package middleware 는 HTTP 미들웨어와 공통 에러 응답 포맷을 제공한다.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/jwlee/fininsight/internal/model"
)

// ErrorResponseBody 는 API 에러 응답의 통일 포맷.
// 원인 카테고리와 대처 방법을 포함한다.
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse 는 통일 에러 포맷으로 HTTP 에러 응답을 쓴다.
// 모든 API 엔드포인트가 일관된 에러 응답을 제공한다.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError 는 내부 서버 에러의 통일 응답을 쓴다.
// 상세 내용은 로그에만 기록하고 사용자에게는 일반 메시지를 반환한다.
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "내부 오류가 발생했습니다.",
		Category: "system",
		Action:   "잠시 후 다시 시도해 주세요.",
	})
}
