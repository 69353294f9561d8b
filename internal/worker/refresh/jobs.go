package refresh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jwlee/fininsight/internal/indicator"
	"github.com/jwlee/fininsight/internal/model"
)

// tradeHeadlineKeyword 는 무역 정책 헤드라인 검색 키워드.
const tradeHeadlineKeyword = "무역 정책"

// 제공자 레이턴시 메트릭의 provider 레이블 값.
const (
	providerNews = "deepsearch"
	providerFred = "fred"
)

// NewsSource 는 갱신 잡이 사용하는 뉴스 제공자 기능.
type NewsSource interface {
	TrendingMacroTopics(ctx context.Context, limit int) ([]model.FetchedArticle, error)
	ArticlesByTheme(ctx context.Context, theme string, limit int) ([]model.FetchedArticle, error)
}

// ArticleUpserter 는 수집된 기사를 중복 제거하며 저장하는 기능.
type ArticleUpserter interface {
	UpsertArticles(ctx context.Context, articles []model.FetchedArticle, source string) (int, error)
}

// IndicatorSource 는 미국 거시 지표 제공자 기능.
type IndicatorSource interface {
	USIndicators(ctx context.Context) (*indicator.USIndicators, error)
}

// NewMacroNewsJob 은 거시 경제 화제 기사를 수집해 source="macro" 로 저장하는 잡을 만든다.
func NewMacroNewsJob(news NewsSource, articles ArticleUpserter, interval time.Duration, limit int, metrics Metrics) Job {
	return Job{
		Name:    "macro-news",
		Trigger: EveryInterval(interval),
		Run: func(ctx context.Context) error {
			start := time.Now()
			fetched, err := news.TrendingMacroTopics(ctx, limit)
			if metrics != nil {
				metrics.RecordProviderLatency(providerNews, time.Since(start))
			}
			if err != nil {
				return err
			}
			inserted, err := articles.UpsertArticles(ctx, fetched, model.SourceMacro)
			if err != nil {
				return err
			}
			if metrics != nil {
				metrics.RecordArticlesUpserted(inserted)
			}
			return nil
		},
	}
}

// NewThemedNewsJob 은 주요 테마별 기사를 수집해 테마 이름으로 저장하는 잡을 만든다.
// 한 테마의 실패가 다른 테마 수집을 막지 않도록 테마별 에러를 모아 반환한다.
func NewThemedNewsJob(news NewsSource, articles ArticleUpserter, interval time.Duration, limit int, logger *slog.Logger, metrics Metrics) Job {
	return Job{
		Name:    "themed-news",
		Trigger: EveryInterval(interval),
		Run: func(ctx context.Context) error {
			var errs []error
			for _, theme := range model.MainThemes {
				start := time.Now()
				fetched, err := news.ArticlesByTheme(ctx, theme, limit)
				if metrics != nil {
					metrics.RecordProviderLatency(providerNews, time.Since(start))
				}
				if err != nil {
					logger.Error("테마 기사 수집에 실패했습니다",
						slog.String("theme", theme),
						slog.String("error", err.Error()),
					)
					errs = append(errs, err)
					continue
				}
				inserted, err := articles.UpsertArticles(ctx, fetched, theme)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if metrics != nil {
					metrics.RecordArticlesUpserted(inserted)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// NewIndicatorJob 은 매일 지정 시에 거시 지표 스냅샷을 다시 만들어
// 캐시를 원자적으로 교체하는 잡을 만든다.
// 일부 지표 수집만 성공하면 성공한 키만 Merge 하고 잡은 실패로 기록해
// 다음 사이클에서 재시도되도록 한다.
func NewIndicatorJob(fred IndicatorSource, news NewsSource, cache *indicator.Cache, hour int, logger *slog.Logger, metrics Metrics) Job {
	return Job{
		Name:    "indicator",
		Trigger: DailyAt(hour),
		Run: func(ctx context.Context) error {
			snap := indicator.Snapshot{}
			var errs []error

			start := time.Now()
			us, err := fred.USIndicators(ctx)
			if metrics != nil {
				metrics.RecordProviderLatency(providerFred, time.Since(start))
			}
			if err != nil {
				errs = append(errs, err)
			} else {
				snap[indicator.KeyInterestRate] = us.InterestRate
				snap[indicator.KeyGDPGrowth] = us.GDPGrowth
			}

			headlines, err := news.ArticlesByTheme(ctx, tradeHeadlineKeyword, 1)
			switch {
			case err != nil:
				errs = append(errs, err)
			case len(headlines) == 0:
				logger.Warn("무역 정책 헤드라인이 없습니다")
			default:
				snap[indicator.KeyTradeHeadline] = headlines[0].Title
			}

			if len(errs) == 0 {
				cache.Replace(snap)
				return nil
			}
			if len(snap) > 0 {
				cache.Merge(snap)
			}
			return errors.Join(errs...)
		},
	}
}
