package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jwlee/fininsight/internal/middleware"
	"github.com/jwlee/fininsight/internal/model"
)

// InsightServiceInterface 는 인사이트 파이프라인 인터페이스.
type InsightServiceInterface interface {
	CreateInsight(ctx context.Context, stockName string) (*model.Insight, error)
	AnswerQuestion(ctx context.Context, reportID, question string) (string, error)
}

// InsightHandler 는 AI 인사이트와 보고서 챗봇 API 핸들러.
type InsightHandler struct {
	insight InsightServiceInterface
	stocks  StockProviderInterface
	logger  *slog.Logger
}

// NewInsightHandler 는 InsightHandler 를 생성한다.
func NewInsightHandler(insight InsightServiceInterface, stocks StockProviderInterface, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{
		insight: insight,
		stocks:  stocks,
		logger:  logger,
	}
}

// insightResponse 는 인사이트의 응답 형식.
type insightResponse struct {
	StockName  string `json:"stock_name"`
	Conclusion string `json:"conclusion"`
	Reason     string `json:"reason"`
	Report     string `json:"report"`
	ReportID   string `json:"report_id"`
}

// chatbotRequest 는 보고서 챗봇 요청의 바디.
type chatbotRequest struct {
	ReportID string `json:"report_id"`
	Question string `json:"question"`
}

// chatbotResponse 는 보고서 챗봇의 응답 형식.
type chatbotResponse struct {
	Answer string `json:"answer"`
}

// GetInsight 는 종목 코드로 2단계 인사이트(신속 의견 + 심층 보고서)를 생성한다.
// 생성 호출의 실패는 파이프라인이 대체 문구로 흡수하므로 여기서는 정상 응답이 된다.
// GET /api/insight/{code}
func (h *InsightHandler) GetInsight(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("종목 코드가 비어 있습니다"))
		return
	}

	detail, err := h.stocks.StockDetail(r.Context(), code)
	if err != nil {
		h.logger.Error("인사이트 대상 종목 조회에 실패했습니다",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewStockNotFoundError(code))
		return
	}

	result, err := h.insight.CreateInsight(r.Context(), detail.Name)
	if err != nil {
		h.logger.Error("인사이트 생성에 실패했습니다",
			slog.String("stock_name", detail.Name),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, insightResponse{
		StockName:  result.StockName,
		Conclusion: result.Conclusion,
		Reason:     result.Reason,
		Report:     result.Report,
		ReportID:   result.ReportID,
	})
}

// Chatbot 은 저장된 보고서를 근거로 후속 질문에 답한다.
// 존재하지 않는 report_id 도 파이프라인이 안내 문구로 답하므로 200이 된다.
// POST /api/chatbot
func (h *InsightHandler) Chatbot(w http.ResponseWriter, r *http.Request) {
	var req chatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("JSON 바디를 파싱할 수 없습니다"))
		return
	}
	if req.ReportID == "" || req.Question == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("report_id와 question은 필수입니다"))
		return
	}

	answer, err := h.insight.AnswerQuestion(r.Context(), req.ReportID, req.Question)
	if err != nil {
		h.logger.Error("챗봇 응답 생성에 실패했습니다",
			slog.String("report_id", req.ReportID),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, chatbotResponse{Answer: answer})
}
