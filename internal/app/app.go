// Package app 은 애플리케이션의 초기화와 기동 모드별 실행을 담당한다.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwlee/fininsight/internal/article"
	"github.com/jwlee/fininsight/internal/config"
	"github.com/jwlee/fininsight/internal/database"
	"github.com/jwlee/fininsight/internal/handler"
	"github.com/jwlee/fininsight/internal/indicator"
	"github.com/jwlee/fininsight/internal/insight"
	"github.com/jwlee/fininsight/internal/llm"
	"github.com/jwlee/fininsight/internal/logger"
	"github.com/jwlee/fininsight/internal/metrics"
	"github.com/jwlee/fininsight/internal/middleware"
	"github.com/jwlee/fininsight/internal/newsapi"
	"github.com/jwlee/fininsight/internal/report"
	"github.com/jwlee/fininsight/internal/repository"
	"github.com/jwlee/fininsight/internal/searchlog"
	"github.com/jwlee/fininsight/internal/security"
	"github.com/jwlee/fininsight/internal/stockapi"
	"github.com/jwlee/fininsight/internal/worker/refresh"
)

// Init 은 애플리케이션 초기화를 수행한다.
// JSON 구조화 로그를 설정한 뒤 환경 변수에서 Config 를 읽는다.
// writer 가 지정되면 로그 출력 대상으로 그 writer 를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 설정 로딩 전에도 로그를 쓸 수 있도록 먼저 초기화한다
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리 포인트.
// 커맨드라인 인자에서 서브커맨드를 해석해 대응하는 모드로 기동한다.
// args 에는 os.Args[1:] 을 넘긴다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 전체 초기화를 건너뛴다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// deps 는 serve/worker 모드가 공유하는 의존성 묶음.
type deps struct {
	db        *sql.DB
	registry  *prometheus.Registry
	collector *metrics.Collector

	articleService   *article.Service
	searchLogService *searchlog.Service
	newsClient       *newsapi.Client
	fredClient       *indicator.FredClient
	cache            *indicator.Cache
	scheduler        *refresh.Scheduler
}

// buildDeps 는 DB 연결을 열고 수집 계열의 의존성을 배선한다.
func buildDeps(cfg *config.Config) (*deps, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	articleRepo := repository.NewPostgresArticleRepo(db)
	searchLogRepo := repository.NewPostgresSearchLogRepo(db)

	articleService := article.NewService(articleRepo)
	searchLogService := searchlog.NewService(searchLogRepo)

	fetchHTTPClient := &http.Client{Timeout: cfg.FetchTimeout}
	sanitizer := security.NewHeadlineSanitizer()

	newsClient := newsapi.NewClient(fetchHTTPClient, slog.Default(), sanitizer, cfg.NewsAPIBaseURL, cfg.NewsAPIKey)
	fredClient := indicator.NewFredClient(fetchHTTPClient, slog.Default(), cfg.FredAPIBaseURL, cfg.FredAPIKey)

	cache := indicator.NewCache()

	jobs := []refresh.Job{
		refresh.NewMacroNewsJob(newsClient, articleService, cfg.MacroRefreshInterval, cfg.NewsFetchLimit, collector),
		refresh.NewThemedNewsJob(newsClient, articleService, cfg.MacroRefreshInterval+cfg.ThemeRefreshOffset, cfg.NewsFetchLimit, slog.Default(), collector),
		refresh.NewIndicatorJob(fredClient, newsClient, cache, cfg.IndicatorRefreshHour, slog.Default(), collector),
	}
	scheduler := refresh.NewScheduler(jobs, slog.Default(), collector)

	return &deps{
		db:               db,
		registry:         registry,
		collector:        collector,
		articleService:   articleService,
		searchLogService: searchLogService,
		newsClient:       newsClient,
		fredClient:       fredClient,
		cache:            cache,
		scheduler:        scheduler,
	}, nil
}

// runServe 는 API 서버 모드로 기동한다.
// 인사이트 프롬프트가 참조하는 지표 캐시는 프로세스 로컬이므로
// 갱신 스케줄러도 같은 프로세스에서 함께 돌린다.
// SIGINT/SIGTERM 수신 시 그레이스풀 셧다운한다.
func runServe(cfg *config.Config) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.db.Close()

	stockClient := stockapi.NewClient(&http.Client{Timeout: cfg.FetchTimeout}, slog.Default(), cfg.StockAPIBaseURL)

	reportStore, err := report.NewFileStore(cfg.ReportsDir)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	// HyperCLOVA X 는 OpenAI 호환 엔드포인트로 접근한다
	clovaClient := llm.NewCompatibleClient(cfg.ClovaAPIKey, cfg.ClovaBaseURL, cfg.ClovaModel, cfg.LLMTimeout)
	gptClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)

	pipeline := insight.NewPipeline(clovaClient, gptClient, reportStore, d.cache, slog.Default(), d.collector)

	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		// config 의 RateLimitGeneral 은 req/min 단위이므로 req/sec 로 변환한다
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		DB:                d.db,
		ArticleService:    d.articleService,
		NewsProvider:      d.newsClient,
		StockProvider:     stockClient,
		SearchLogService:  d.searchLogService,
		InsightService:    pipeline,
		MetricsGatherer:   d.registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second, // 인사이트 생성은 LLM 2회 호출을 포함한다
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 갱신 스케줄러를 백그라운드로 기동
	go d.scheduler.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker 는 수집 워커 모드로 기동한다.
// API 를 노출하지 않고 갱신 스케줄러만 실행한다. 기사 저장은 url UNIQUE
// 제약으로 중복이 차단되므로 serve 프로세스와 병행 운영해도 안전하다.
func runWorker(cfg *config.Config) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("macro_interval", cfg.MacroRefreshInterval),
		slog.Int("indicator_hour", cfg.IndicatorRefreshHour),
	)

	// 스케줄러를 메인 고루틴에서 실행 (블로킹)
	d.scheduler.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션을 순서대로 모두 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 /health 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
// distroless 환경의 Docker 헬스 체크용 서브커맨드.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL의 인증 정보를 가린다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
