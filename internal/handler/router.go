package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwlee/fininsight/internal/metrics"
	"github.com/jwlee/fininsight/internal/middleware"
)

// DBPinger 는 헬스 체크용 DB 연결 확인 인터페이스.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps 는 NewRouter 에 필요한 의존성을 모은 구조체.
type RouterDeps struct {
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	DB DBPinger

	ArticleService   ArticleServiceInterface
	NewsProvider     NewsProviderInterface
	StockProvider    StockProviderInterface
	SearchLogService SearchLogServiceInterface
	InsightService   InsightServiceInterface

	// MetricsGatherer 가 nil 이 아니면 /metrics 를 노출한다
	MetricsGatherer prometheus.Gatherer
}

// NewRouter 는 전체 API 라우팅과 미들웨어 체인을 구성한 chi.Router 를 반환한다.
//
// 미들웨어 스택 실행 순서:
//
//	CORS → SecurityHeaders → Logging → Recovery → RateLimit
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())

	newsHandler := NewNewsHandler(deps.ArticleService, deps.NewsProvider, deps.Logger)
	stockHandler := NewStockHandler(deps.StockProvider, deps.SearchLogService, deps.Logger)
	insightHandler := NewInsightHandler(deps.InsightService, deps.StockProvider, deps.Logger)

	// 운영용 엔드포인트는 레이트 제한 밖에 둔다
	r.Get("/health", newHealthHandler(deps.DB))
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Route("/api", func(r chi.Router) {
			r.Route("/news", func(r chi.Router) {
				r.Get("/macro", newsHandler.GetMacroNews)
				r.Get("/popular", newsHandler.GetPopularNews)
				r.Get("/theme/{name}", newsHandler.GetThemeNews)
				r.Post("/{id}/click", newsHandler.ClickArticle)
			})

			r.Get("/themes", newsHandler.GetThemes)

			r.Get("/stock/search/{code}", stockHandler.SearchStock)
			r.Get("/keywords/top", stockHandler.TopKeywords)

			r.Get("/insight/{code}", insightHandler.GetInsight)
			r.Post("/chatbot", insightHandler.Chatbot)
		})
	})

	return r
}

// newHealthHandler 는 DB 연결을 확인하는 헬스 체크 핸들러를 반환한다.
func newHealthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"reason": "database unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
