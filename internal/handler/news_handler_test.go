package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jwlee/fininsight/internal/model"
)

func newTestLogger() *slog.Logger {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil))
}

// --- 모의 구현 ---

type mockArticleService struct {
	upsertFunc         func(ctx context.Context, records []model.FetchedArticle, source string) (int, error)
	listBySourceFunc   func(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error)
	incrementClickFunc func(ctx context.Context, id int64) (*model.NewsArticle, error)
	topByClickFunc     func(ctx context.Context, limit int) ([]*model.NewsArticle, error)
}

func (m *mockArticleService) UpsertArticles(ctx context.Context, records []model.FetchedArticle, source string) (int, error) {
	return m.upsertFunc(ctx, records, source)
}

func (m *mockArticleService) ListBySource(ctx context.Context, source string, offset, limit int) ([]*model.NewsArticle, error) {
	return m.listBySourceFunc(ctx, source, offset, limit)
}

func (m *mockArticleService) IncrementClick(ctx context.Context, id int64) (*model.NewsArticle, error) {
	return m.incrementClickFunc(ctx, id)
}

func (m *mockArticleService) TopByClick(ctx context.Context, limit int) ([]*model.NewsArticle, error) {
	return m.topByClickFunc(ctx, limit)
}

type mockNewsProvider struct {
	byThemeFunc func(ctx context.Context, theme string, limit int) ([]model.FetchedArticle, error)
	themesFunc  func(ctx context.Context) ([]string, error)
}

func (m *mockNewsProvider) ArticlesByTheme(ctx context.Context, theme string, limit int) ([]model.FetchedArticle, error) {
	return m.byThemeFunc(ctx, theme, limit)
}

func (m *mockNewsProvider) InvestmentThemes(ctx context.Context) ([]string, error) {
	return m.themesFunc(ctx)
}

func newNewsTestRouter(articles ArticleServiceInterface, provider NewsProviderInterface) http.Handler {
	return NewRouter(&RouterDeps{
		Logger:            newTestLogger(),
		CORSAllowedOrigin: "http://localhost:3000",
		ArticleService:    articles,
		NewsProvider:      provider,
	})
}

func decodeArticleList(t *testing.T, body *bytes.Buffer) articleListResponse {
	t.Helper()
	var resp articleListResponse
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	return resp
}

// TestGetMacroNews_ReturnsArticles 는 거시 기사 5건이 반환되는지 검증한다.
func TestGetMacroNews_ReturnsArticles(t *testing.T) {
	articles := &mockArticleService{
		listBySourceFunc: func(_ context.Context, source string, offset, limit int) ([]*model.NewsArticle, error) {
			if source != model.SourceMacro {
				t.Errorf("source = %q, want %q", source, model.SourceMacro)
			}
			if limit != 5 {
				t.Errorf("limit = %d, want 5", limit)
			}
			return []*model.NewsArticle{
				{ID: 1, Title: "금리 동결", URL: "https://news.example.com/1", Source: model.SourceMacro},
			}, nil
		},
	}

	router := newNewsTestRouter(articles, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/news/macro", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeArticleList(t, w.Body)
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "금리 동결" {
		t.Errorf("articles = %+v", resp.Articles)
	}
}

// TestGetThemeNews_MainThemeServedFromDB 는 주요 테마가 제공자 호출 없이
// DB에서 조회되는지 검증한다.
func TestGetThemeNews_MainThemeServedFromDB(t *testing.T) {
	articles := &mockArticleService{
		listBySourceFunc: func(_ context.Context, source string, _, _ int) ([]*model.NewsArticle, error) {
			if source != "반도체" {
				t.Errorf("source = %q, want %q", source, "반도체")
			}
			return []*model.NewsArticle{{ID: 2, Title: "HBM 증설", Source: "반도체"}}, nil
		},
	}
	provider := &mockNewsProvider{
		byThemeFunc: func(_ context.Context, _ string, _ int) ([]model.FetchedArticle, error) {
			t.Error("주요 테마 조회에서 제공자 호출이 없어야 합니다")
			return nil, nil
		},
	}

	router := newNewsTestRouter(articles, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/news/theme/반도체", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeArticleList(t, w.Body)
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "HBM 증설" {
		t.Errorf("articles = %+v", resp.Articles)
	}
}

// TestGetThemeNews_AdHocFetchForOtherTheme 는 주요 테마가 아닌 테마가
// 요청 시점 수집→저장→조회로 응답되는지 검증한다.
func TestGetThemeNews_AdHocFetchForOtherTheme(t *testing.T) {
	var upserted bool
	articles := &mockArticleService{
		upsertFunc: func(_ context.Context, records []model.FetchedArticle, source string) (int, error) {
			upserted = true
			if source != "로봇" {
				t.Errorf("source = %q, want %q", source, "로봇")
			}
			return len(records), nil
		},
		listBySourceFunc: func(_ context.Context, source string, _, _ int) ([]*model.NewsArticle, error) {
			if !upserted {
				t.Error("저장 전에 조회가 호출되었습니다")
			}
			return []*model.NewsArticle{{ID: 3, Title: "로봇 상용화", Source: source}}, nil
		},
	}
	provider := &mockNewsProvider{
		byThemeFunc: func(_ context.Context, theme string, _ int) ([]model.FetchedArticle, error) {
			if theme != "로봇" {
				t.Errorf("theme = %q, want %q", theme, "로봇")
			}
			return []model.FetchedArticle{{Title: "로봇 상용화", URL: "https://news.example.com/r1", PublishedAt: time.Now()}}, nil
		},
	}

	router := newNewsTestRouter(articles, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/news/theme/로봇", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !upserted {
		t.Error("임시 수집 결과가 저장되지 않았습니다")
	}
}

// TestGetThemeNews_ProviderFailureReturns404 는 임시 수집 실패가 404로
// 응답되는지 검증한다.
func TestGetThemeNews_ProviderFailureReturns404(t *testing.T) {
	provider := &mockNewsProvider{
		byThemeFunc: func(_ context.Context, _ string, _ int) ([]model.FetchedArticle, error) {
			return nil, errors.New("provider down")
		},
	}

	router := newNewsTestRouter(&mockArticleService{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/news/theme/우주항공", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	if body["code"] != model.ErrCodeThemeNewsMissing {
		t.Errorf("code = %q, want %q", body["code"], model.ErrCodeThemeNewsMissing)
	}
}

// TestGetThemes_FallbackOnProviderFailure 는 제공자 장애 시 고정 4개 테마가
// 반환되는지 검증한다.
func TestGetThemes_FallbackOnProviderFailure(t *testing.T) {
	provider := &mockNewsProvider{
		themesFunc: func(_ context.Context) ([]string, error) {
			return nil, errors.New("provider down")
		},
	}

	router := newNewsTestRouter(&mockArticleService{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/themes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp themeListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	want := []string{"반도체", "2차전지", "인공지능", "바이오/제약"}
	if len(resp.Themes) != len(want) {
		t.Fatalf("테마 수 = %d, want %d", len(resp.Themes), len(want))
	}
	for i, theme := range want {
		if resp.Themes[i] != theme {
			t.Errorf("themes[%d] = %q, want %q", i, resp.Themes[i], theme)
		}
	}
}

// TestGetThemes_PassesThroughProviderList 는 제공자 목록이 그대로
// 반환되는지 검증한다.
func TestGetThemes_PassesThroughProviderList(t *testing.T) {
	provider := &mockNewsProvider{
		themesFunc: func(_ context.Context) ([]string, error) {
			return []string{"방산", "조선"}, nil
		},
	}

	router := newNewsTestRouter(&mockArticleService{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/themes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp themeListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	if len(resp.Themes) != 2 || resp.Themes[0] != "방산" {
		t.Errorf("themes = %v", resp.Themes)
	}
}

// TestClickArticle_IncrementsAndReturnsArticle 은 클릭 수 증가 결과가
// 반환되는지 검증한다.
func TestClickArticle_IncrementsAndReturnsArticle(t *testing.T) {
	articles := &mockArticleService{
		incrementClickFunc: func(_ context.Context, id int64) (*model.NewsArticle, error) {
			if id != 42 {
				t.Errorf("id = %d, want 42", id)
			}
			return &model.NewsArticle{ID: 42, Title: "금리 동결", ClickCount: 8}, nil
		},
	}

	router := newNewsTestRouter(articles, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news/42/click", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp articleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	if resp.ClickCount != 8 {
		t.Errorf("ClickCount = %d, want 8", resp.ClickCount)
	}
}

// TestClickArticle_StaleIDReturns404 는 존재하지 않는 id의 클릭이
// 404로 응답되는지(서버 에러가 아님) 검증한다.
func TestClickArticle_StaleIDReturns404(t *testing.T) {
	articles := &mockArticleService{
		incrementClickFunc: func(_ context.Context, _ int64) (*model.NewsArticle, error) {
			return nil, nil
		},
	}

	router := newNewsTestRouter(articles, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news/999/click", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("응답 파싱 실패: %v", err)
	}
	if body["code"] != model.ErrCodeArticleNotFound {
		t.Errorf("code = %q, want %q", body["code"], model.ErrCodeArticleNotFound)
	}
}

// TestClickArticle_NonIntegerIDReturns400 은 정수가 아닌 id가 400으로
// 거부되는지 검증한다.
func TestClickArticle_NonIntegerIDReturns400(t *testing.T) {
	router := newNewsTestRouter(&mockArticleService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/news/abc/click", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestGetPopularNews_ReturnsTopByClick 은 클릭 수 기준 인기 기사가
// 반환되는지 검증한다.
func TestGetPopularNews_ReturnsTopByClick(t *testing.T) {
	articles := &mockArticleService{
		topByClickFunc: func(_ context.Context, limit int) ([]*model.NewsArticle, error) {
			if limit != 10 {
				t.Errorf("limit = %d, want 10", limit)
			}
			return []*model.NewsArticle{
				{ID: 1, Title: "인기 기사", ClickCount: 99},
			}, nil
		},
	}

	router := newNewsTestRouter(articles, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/news/popular", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeArticleList(t, w.Body)
	if len(resp.Articles) != 1 || resp.Articles[0].ClickCount != 99 {
		t.Errorf("articles = %+v", resp.Articles)
	}
}
