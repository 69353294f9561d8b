// Package handler 는 HTTP API 핸들러와 라우팅을 제공한다.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jwlee/fininsight/internal/middleware"
	"github.com/jwlee/fininsight/internal/model"
)

// 목록 조회 건수
const (
	macroNewsLimit   = 5
	themeNewsLimit   = 10
	popularNewsLimit = 10
)

// ArticleServiceInterface 는 뉴스 핸들러가 필요로 하는 기사 서비스 인터페이스.
type ArticleServiceInterface interface {
	UpsertArticles(ctx context.Context, records []model.FetchedArticle, source string) (int, error)
	ListBySource(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error)
	IncrementClick(ctx context.Context, id int64) (*model.NewsArticle, error)
	TopByClick(ctx context.Context, limit int) ([]*model.NewsArticle, error)
}

// NewsProviderInterface 는 요청 시점의 임시 수집에 쓰이는 뉴스 제공자 인터페이스.
type NewsProviderInterface interface {
	ArticlesByTheme(ctx context.Context, theme string, limit int) ([]model.FetchedArticle, error)
	InvestmentThemes(ctx context.Context) ([]string, error)
}

// NewsHandler 는 뉴스 조회 API 핸들러.
type NewsHandler struct {
	articles ArticleServiceInterface
	provider NewsProviderInterface
	logger   *slog.Logger
}

// NewNewsHandler 는 NewsHandler 를 생성한다.
func NewNewsHandler(articles ArticleServiceInterface, provider NewsProviderInterface, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		articles: articles,
		provider: provider,
		logger:   logger,
	}
}

// --- 응답 형식 ---

// articleResponse 는 기사 한 건의 응답 형식.
type articleResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	ClickCount  int       `json:"click_count"`
}

// articleListResponse 는 기사 목록의 응답 형식.
type articleListResponse struct {
	Articles []articleResponse `json:"articles"`
}

// themeListResponse 는 테마 목록의 응답 형식.
type themeListResponse struct {
	Themes []string `json:"themes"`
}

func toArticleResponse(a *model.NewsArticle) articleResponse {
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Source:      a.Source,
		ClickCount:  a.ClickCount,
	}
}

func toArticleListResponse(articles []*model.NewsArticle) articleListResponse {
	resp := articleListResponse{Articles: make([]articleResponse, 0, len(articles))}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleResponse(a))
	}
	return resp
}

// GetMacroNews 는 거시 경제 최신 기사를 반환한다.
// GET /api/news/macro
func (h *NewsHandler) GetMacroNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.ListBySource(r.Context(), model.SourceMacro, 0, macroNewsLimit)
	if err != nil {
		h.logger.Error("거시 기사 조회에 실패했습니다", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, toArticleListResponse(articles))
}

// GetThemeNews 는 테마별 최신 기사를 반환한다.
// 주요 테마는 주기 수집으로 쌓인 DB에서 읽고, 그 밖의 테마는 요청 시점에
// 제공자에서 수집한다. 제공자 장애나 결과 없음은 404로 응답한다.
// GET /api/news/theme/{name}
func (h *NewsHandler) GetThemeNews(w http.ResponseWriter, r *http.Request) {
	theme := chi.URLParam(r, "name")
	if theme == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("테마 이름이 비어 있습니다"))
		return
	}

	if slices.Contains(model.MainThemes, theme) {
		articles, err := h.articles.ListBySource(r.Context(), theme, 0, themeNewsLimit)
		if err != nil {
			h.logger.Error("테마 기사 조회에 실패했습니다",
				slog.String("theme", theme),
				slog.String("error", err.Error()),
			)
			middleware.WriteInternalServerError(w)
			return
		}
		if len(articles) > 0 {
			writeJSON(w, http.StatusOK, toArticleListResponse(articles))
			return
		}
		// 기동 직후 등 아직 수집 전이면 즉시 수집으로 대체한다
	}

	h.serveAdHocThemeNews(w, r, theme)
}

// serveAdHocThemeNews 는 테마 기사를 요청 시점에 수집해 저장한 뒤 반환한다.
func (h *NewsHandler) serveAdHocThemeNews(w http.ResponseWriter, r *http.Request, theme string) {
	fetched, err := h.provider.ArticlesByTheme(r.Context(), theme, themeNewsLimit)
	if err != nil || len(fetched) == 0 {
		if err != nil {
			h.logger.Error("테마 기사 즉시 수집에 실패했습니다",
				slog.String("theme", theme),
				slog.String("error", err.Error()),
			)
		}
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewThemeNewsNotAvailableError(theme))
		return
	}

	if _, err := h.articles.UpsertArticles(r.Context(), fetched, theme); err != nil {
		h.logger.Error("테마 기사 저장에 실패했습니다",
			slog.String("theme", theme),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	articles, err := h.articles.ListBySource(r.Context(), theme, 0, themeNewsLimit)
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, toArticleListResponse(articles))
}

// GetThemes 는 투자 테마 목록을 반환한다.
// 제공자 장애 시 고정 대체 목록으로 응답한다. 빈 화면보다 기본 테마가 낫다.
// GET /api/themes
func (h *NewsHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.provider.InvestmentThemes(r.Context())
	if err != nil || len(themes) == 0 {
		if err != nil {
			h.logger.Warn("투자 테마 조회에 실패해 대체 목록으로 응답합니다",
				slog.String("error", err.Error()),
			)
		}
		writeJSON(w, http.StatusOK, themeListResponse{Themes: model.FallbackThemes})
		return
	}

	writeJSON(w, http.StatusOK, themeListResponse{Themes: themes})
}

// ClickArticle 은 기사 클릭 수를 1 증가시키고 갱신된 기사를 반환한다.
// 이미 삭제되었거나 존재하지 않는 id는 404로 응답한다(정상 흐름).
// POST /api/news/{id}/click
func (h *NewsHandler) ClickArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("기사 id는 정수여야 합니다"))
		return
	}

	article, err := h.articles.IncrementClick(r.Context(), id)
	if err != nil {
		h.logger.Error("클릭 수 갱신에 실패했습니다",
			slog.Int64("article_id", id),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}
	if article == nil {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewArticleNotFoundError(id))
		return
	}

	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// GetPopularNews 는 클릭 수 기준 인기 기사를 반환한다.
// GET /api/news/popular
func (h *NewsHandler) GetPopularNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.TopByClick(r.Context(), popularNewsLimit)
	if err != nil {
		h.logger.Error("인기 기사 조회에 실패했습니다", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, toArticleListResponse(articles))
}

// writeJSON 은 JSON 응답을 쓴다.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
