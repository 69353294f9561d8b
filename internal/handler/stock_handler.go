package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jwlee/fininsight/internal/middleware"
	"github.com/jwlee/fininsight/internal/model"
)

// topKeywordsLimit 은 인기 검색어 반환 건수.
const topKeywordsLimit = 10

// StockProviderInterface 는 종목 시세 제공자 인터페이스.
type StockProviderInterface interface {
	StockDetail(ctx context.Context, code string) (*model.StockDetail, error)
}

// SearchLogServiceInterface 는 검색 로그 서비스 인터페이스.
type SearchLogServiceInterface interface {
	RecordSearch(ctx context.Context, keyword string) error
	TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error)
}

// StockHandler 는 종목 검색과 인기 검색어 API 핸들러.
type StockHandler struct {
	provider  StockProviderInterface
	searchLog SearchLogServiceInterface
	logger    *slog.Logger
}

// NewStockHandler 는 StockHandler 를 생성한다.
func NewStockHandler(provider StockProviderInterface, searchLog SearchLogServiceInterface, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		provider:  provider,
		searchLog: searchLog,
		logger:    logger,
	}
}

// stockDetailResponse 는 종목 상세의 응답 형식.
type stockDetailResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	MarketCap string `json:"market_cap"`
	PER       string `json:"per"`
	PBR       string `json:"pbr"`
}

// keywordListResponse 는 인기 검색어 목록의 응답 형식.
type keywordListResponse struct {
	Keywords []keywordCountResponse `json:"keywords"`
}

type keywordCountResponse struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// SearchStock 은 종목 코드로 시세/밸류에이션 스냅샷을 조회한다.
// 조회된 종목명은 검색 로그에 기록된다. 기록 실패는 응답을 막지 않는다.
// 제공자 장애나 알 수 없는 코드는 404로 응답한다.
// GET /api/stock/search/{code}
func (h *StockHandler) SearchStock(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("종목 코드가 비어 있습니다"))
		return
	}

	detail, err := h.provider.StockDetail(r.Context(), code)
	if err != nil {
		h.logger.Error("종목 조회에 실패했습니다",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewStockNotFoundError(code))
		return
	}

	// 검색 로그 기록 실패는 이미 서비스에서 로깅된다
	_ = h.searchLog.RecordSearch(r.Context(), detail.Name)

	writeJSON(w, http.StatusOK, stockDetailResponse{
		Code:      detail.Code,
		Name:      detail.Name,
		Price:     detail.Price,
		MarketCap: detail.MarketCap,
		PER:       detail.PER,
		PBR:       detail.PBR,
	})
}

// TopKeywords 는 최근 24시간 인기 검색어를 반환한다.
// GET /api/keywords/top
func (h *StockHandler) TopKeywords(w http.ResponseWriter, r *http.Request) {
	counts, err := h.searchLog.TopKeywords(r.Context(), topKeywordsLimit)
	if err != nil {
		h.logger.Error("인기 검색어 집계에 실패했습니다", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	resp := keywordListResponse{Keywords: make([]keywordCountResponse, 0, len(counts))}
	for _, kc := range counts {
		resp.Keywords = append(resp.Keywords, keywordCountResponse{
			Keyword: kc.Keyword,
			Count:   kc.Count,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
