package indicator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// seriesInterestRate 는 미국 실효 연방기금금리 시계열 ID.
	seriesInterestRate = "DFF"
	// seriesGDPGrowth 는 미국 실질 GDP 성장률(전분기 대비, 연율) 시계열 ID.
	seriesGDPGrowth = "A191RL1Q225SBEA"
	// observationFetchCount 는 한 번에 조회하는 최신 관측치 수.
	// FRED는 미발표 구간을 "." 값으로 내려주므로 여유분을 받아 첫 유효값을 고른다.
	observationFetchCount = 10
)

// USIndicators 는 FRED에서 조회한 미국 거시 지표 한 세트.
type USIndicators struct {
	InterestRate string // 예: "5.50%"
	GDPGrowth    string // 예: "2.80%"
}

// FredClient 는 FRED observations API 클라이언트.
type FredClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// NewFredClient 는 FredClient 를 생성한다.
func NewFredClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *FredClient {
	return &FredClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// USIndicators 는 최신 기준 금리와 GDP 성장률을 "%.2f%%" 형식으로 반환한다.
// 둘 중 하나라도 조회에 실패하면 에러를 반환하고, 호출자(일일 갱신 잡)는
// 이번 사이클을 건너뛴다.
func (c *FredClient) USIndicators(ctx context.Context) (*USIndicators, error) {
	rate, err := c.latestObservation(ctx, seriesInterestRate)
	if err != nil {
		return nil, fmt.Errorf("기준 금리 조회에 실패했습니다: %w", err)
	}

	gdp, err := c.latestObservation(ctx, seriesGDPGrowth)
	if err != nil {
		return nil, fmt.Errorf("GDP 성장률 조회에 실패했습니다: %w", err)
	}

	return &USIndicators{
		InterestRate: fmt.Sprintf("%.2f%%", rate),
		GDPGrowth:    fmt.Sprintf("%.2f%%", gdp),
	}, nil
}

// latestObservation 은 지정 시계열의 가장 최근 유효 관측치를 반환한다.
func (c *FredClient) latestObservation(ctx context.Context, seriesID string) (float64, error) {
	reqURL, err := url.Parse(c.baseURL + "/fred/series/observations")
	if err != nil {
		return 0, fmt.Errorf("엔드포인트 URL 파싱에 실패했습니다: %w", err)
	}

	q := reqURL.Query()
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(observationFetchCount))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("FRED API 호출에 실패했습니다",
			slog.String("series_id", seriesID),
			slog.String("error", err.Error()),
		)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("FRED API가 에러 상태를 반환했습니다",
			slog.String("series_id", seriesID),
			slog.Int("http_status", resp.StatusCode),
		)
		return 0, fmt.Errorf("FRED API가 상태 %d 를 반환했습니다", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}

	var parsed struct {
		Observations []struct {
			Date  string `json:"date"`
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("응답 JSON 파싱에 실패했습니다: %w", err)
	}

	// 미발표 관측치는 "." 로 내려오므로 최신순으로 첫 유효값을 찾는다
	for _, obs := range parsed.Observations {
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		return v, nil
	}

	return 0, fmt.Errorf("시계열 %s 에 유효한 관측치가 없습니다", seriesID)
}
