// Package config 는 환경 변수 기반 설정 로딩을 제공한다.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 는 애플리케이션 전체 설정을 보유한다.
// 기동 시 환경 변수에서 1회 읽어 이뮤터블로 취급한다.
type Config struct {
	// Database
	DatabaseURL string

	// 뉴스 검색 제공자 (DeepSearch)
	NewsAPIKey     string
	NewsAPIBaseURL string

	// 종목 시세 제공자 (네이버 증권 모바일 API)
	StockAPIBaseURL string

	// 거시 지표 제공자 (FRED)
	FredAPIKey     string
	FredAPIBaseURL string

	// 생성 모델
	ClovaAPIKey  string
	ClovaBaseURL string
	ClovaModel   string
	OpenAIAPIKey string
	OpenAIModel  string

	// 스케줄러
	MacroRefreshInterval time.Duration
	ThemeRefreshOffset   time.Duration
	IndicatorRefreshHour int
	NewsFetchLimit       int

	// 외부 호출
	FetchTimeout time.Duration
	LLMTimeout   time.Duration

	// 보고서 저장소
	ReportsDir string

	// Rate Limit (req/min)
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경 변수에서 Config 를 읽어들인다.
// 필수 환경 변수가 미설정이면 에러를 반환한다.
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.NewsAPIKey = os.Getenv("DEEPSEARCH_API_KEY")
	if cfg.NewsAPIKey == "" {
		missing = append(missing, "DEEPSEARCH_API_KEY")
	}

	cfg.FredAPIKey = os.Getenv("FRED_API_KEY")
	if cfg.FredAPIKey == "" {
		missing = append(missing, "FRED_API_KEY")
	}

	cfg.ClovaAPIKey = os.Getenv("CLOVA_API_KEY")
	if cfg.ClovaAPIKey == "" {
		missing = append(missing, "CLOVA_API_KEY")
	}

	cfg.ClovaBaseURL = os.Getenv("CLOVA_BASE_URL")
	if cfg.ClovaBaseURL == "" {
		missing = append(missing, "CLOVA_BASE_URL")
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.NewsAPIBaseURL = getEnvString("DEEPSEARCH_BASE_URL", "https://api-v2.deepsearch.com")
	cfg.StockAPIBaseURL = getEnvString("STOCK_API_BASE_URL", "https://m.stock.naver.com")
	cfg.FredAPIBaseURL = getEnvString("FRED_BASE_URL", "https://api.stlouisfed.org")
	cfg.ClovaModel = getEnvString("CLOVA_MODEL", "HCX-003")
	cfg.OpenAIModel = getEnvString("OPENAI_MODEL", "gpt-4o-mini")
	cfg.MacroRefreshInterval = getEnvDuration("MACRO_REFRESH_INTERVAL", 10*time.Minute)
	cfg.ThemeRefreshOffset = getEnvDuration("THEME_REFRESH_OFFSET", 10*time.Second)
	cfg.IndicatorRefreshHour = getEnvInt("INDICATOR_REFRESH_HOUR", 6)
	cfg.NewsFetchLimit = getEnvInt("NEWS_FETCH_LIMIT", 10)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT", 60*time.Second)
	cfg.ReportsDir = getEnvString("REPORTS_DIR", "reports")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	if cfg.IndicatorRefreshHour < 0 || cfg.IndicatorRefreshHour > 23 {
		return nil, fmt.Errorf("INDICATOR_REFRESH_HOUR must be between 0 and 23: %d", cfg.IndicatorRefreshHour)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
