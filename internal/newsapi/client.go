// Package newsapi 는 뉴스 검색 제공자(DeepSearch) API 클라이언트를 제공한다.
// 제공자별 응답 필드는 이 패키지 안에서 정규형 레코드로 변환되어 나간다.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jwlee/fininsight/internal/model"
	"github.com/jwlee/fininsight/internal/security"
)

// Client 는 뉴스 검색 API 클라이언트.
// 수집 잡과 요청 핸들러 양쪽에서 사용되며, 전송/파싱 실패는 로그를 남기고
// 에러로 반환한다. 호출자는 에러를 "이번 사이클은 데이터 없음"으로 일괄 취급한다.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	sanitizer  security.HeadlineSanitizerService
	baseURL    string
	apiKey     string
}

// NewClient 는 Client 를 생성한다.
func NewClient(httpClient *http.Client, logger *slog.Logger, sanitizer security.HeadlineSanitizerService, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		sanitizer:  sanitizer,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// articleData 는 제공자의 기사 응답 형식.
type articleData struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// TrendingMacroTopics 는 거시 경제 분야의 최신 화제 기사를 조회한다.
func (c *Client) TrendingMacroTopics(ctx context.Context, limit int) ([]model.FetchedArticle, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("category", "economy")
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("order", "published_at")

	data, err := c.fetchArticles(ctx, "/v1/articles/trending", params)
	if err != nil {
		return nil, err
	}
	return c.normalize(data), nil
}

// ArticlesByTheme 는 특정 테마 키워드의 최신 기사를 조회한다.
func (c *Client) ArticlesByTheme(ctx context.Context, theme string, limit int) ([]model.FetchedArticle, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("keyword", theme)
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("order", "published_at")

	data, err := c.fetchArticles(ctx, "/v1/articles", params)
	if err != nil {
		return nil, err
	}
	return c.normalize(data), nil
}

// InvestmentThemes 는 제공자의 투자 테마 태그 목록을 조회한다.
func (c *Client) InvestmentThemes(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("country_code", "kr")

	body, err := c.get(ctx, "/v2/markets/invest_tags", params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			TagName string `json:"tag_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("투자 테마 응답 파싱에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("응답 JSON 파싱에 실패했습니다: %w", err)
	}

	themes := make([]string, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		if item.TagName != "" {
			themes = append(themes, item.TagName)
		}
	}
	return themes, nil
}

// fetchArticles 는 기사 목록 엔드포인트를 호출해 제공자 형식 그대로 반환한다.
func (c *Client) fetchArticles(ctx context.Context, path string, params url.Values) ([]articleData, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []articleData `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("기사 응답 파싱에 실패했습니다",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("응답 JSON 파싱에 실패했습니다: %w", err)
	}
	return parsed.Data, nil
}

// get 은 공통 GET 호출을 수행한다.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("엔드포인트 URL 파싱에 실패했습니다: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("뉴스 API 호출에 실패했습니다",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("뉴스 API가 에러 상태를 반환했습니다",
			slog.String("path", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("뉴스 API가 상태 %d 를 반환했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}
	return body, nil
}

// normalize 는 제공자 형식을 정규형 레코드로 변환한다.
// 제목은 정화를 거치고, published_at 문자열은 파싱에 실패하면 수집 시각으로 대체한다.
func (c *Client) normalize(data []articleData) []model.FetchedArticle {
	now := time.Now()
	articles := make([]model.FetchedArticle, 0, len(data))
	for _, item := range data {
		publishedAt, ok := parsePublishedAt(item.PublishedAt)
		if !ok {
			publishedAt = now
		}
		articles = append(articles, model.FetchedArticle{
			Title:       c.sanitizer.Sanitize(item.Title),
			URL:         item.URL,
			PublishedAt: publishedAt,
		})
	}
	return articles
}

// publishedAtLayouts 는 제공자가 내려주는 발행 시각 형식들.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublishedAt(s string) (time.Time, bool) {
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
