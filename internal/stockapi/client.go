// Package stockapi 는 종목 시세 제공자(네이버 증권 모바일 API) 클라이언트를 제공한다.
package stockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jwlee/fininsight/internal/model"
)

// totalInfos 항목 코드
const (
	codeMarketValue = "marketValue"
	codePER         = "per"
	codePBR         = "pbr"
)

// Client 는 종목 통합 정보 엔드포인트 클라이언트.
// 응답의 stockName / dealTrendInfos / totalInfos 를 정규형 StockDetail 로 변환한다.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient 는 Client 를 생성한다.
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// integrationResponse 는 제공자의 통합 정보 응답 중 사용하는 필드만 추린 형식.
type integrationResponse struct {
	StockName      string `json:"stockName"`
	DealTrendInfos []struct {
		ClosePrice string `json:"closePrice"`
	} `json:"dealTrendInfos"`
	TotalInfos []struct {
		Code  string `json:"code"`
		Value string `json:"value"`
	} `json:"totalInfos"`
}

// StockDetail 은 종목 코드로 시세/밸류에이션 스냅샷을 조회한다.
// 제공자 장애나 알 수 없는 종목은 에러로 반환되며, 호출자는 "찾을 수 없음"으로 취급한다.
func (c *Client) StockDetail(ctx context.Context, code string) (*model.StockDetail, error) {
	reqURL := fmt.Sprintf("%s/api/stock/%s/integration", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("종목 API 호출에 실패했습니다",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("종목 API가 에러 상태를 반환했습니다",
			slog.String("code", code),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("종목 API가 상태 %d 를 반환했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}

	var parsed integrationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("종목 API 응답 파싱에 실패했습니다",
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("응답 JSON 파싱에 실패했습니다: %w", err)
	}

	if parsed.StockName == "" {
		return nil, fmt.Errorf("종목명이 없는 응답입니다: %s", code)
	}

	detail := &model.StockDetail{
		Code: code,
		Name: parsed.StockName,
	}
	if len(parsed.DealTrendInfos) > 0 {
		detail.Price = parsed.DealTrendInfos[0].ClosePrice
	}
	for _, info := range parsed.TotalInfos {
		switch info.Code {
		case codeMarketValue:
			detail.MarketCap = info.Value
		case codePER:
			detail.PER = info.Value
		case codePBR:
			detail.PBR = info.Value
		}
	}

	return detail, nil
}
