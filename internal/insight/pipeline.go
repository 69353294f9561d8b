// Package insight 는 종목 인사이트 생성 파이프라인을 제공한다.
// 1단계 신속 의견(HyperCLOVA X), 2단계 심층 보고서(GPT), 보고서 저장,
// 보고서 기반 챗봇 답변까지를 담당한다.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwlee/fininsight/internal/indicator"
	"github.com/jwlee/fininsight/internal/llm"
	"github.com/jwlee/fininsight/internal/model"
	"github.com/jwlee/fininsight/internal/report"
)

// 경계에서 사용자에게 노출되는 대체 문구.
// 파이프라인 내부에서는 Degraded 플래그로 구분하고, 문구는 응답 직전에만 쓴다.
const (
	fallbackReason      = "근거를 찾을 수 없습니다"
	opinionFailureText  = "분석 오류"
	reportFailureText   = "보고서 생성 중 오류가 발생했습니다."
	reportMissingAnswer = "죄송합니다. 해당 보고서를 찾을 수 없습니다."
	answerFailureText   = "답변 생성 중 오류가 발생했습니다."
)

// 생성 호출 단계 레이블. 메트릭 집계에 쓰인다.
const (
	stageQuickOpinion = "quick_opinion"
	stageReport       = "report"
	stageChatbot      = "chatbot"
)

// promptIndicatorKeys 는 신속 의견 프롬프트에 나열되는 지표 키의 고정 순서.
var promptIndicatorKeys = []string{
	indicator.KeyInterestRate,
	indicator.KeyGDPGrowth,
	indicator.KeyTradeHeadline,
}

// Metrics 는 파이프라인이 기록하는 계측 이벤트.
type Metrics interface {
	RecordLLMFailure(stage string)
	RecordDegradedInsight()
}

// Pipeline 은 인사이트 생성 파이프라인.
// quick 은 신속 의견/챗봇용(HyperCLOVA X), deep 은 심층 보고서용(GPT) 클라이언트다.
type Pipeline struct {
	quick   llm.ChatClient
	deep    llm.ChatClient
	store   report.Store
	cache   *indicator.Cache
	logger  *slog.Logger
	metrics Metrics
}

// NewPipeline 은 Pipeline 을 생성한다. metrics 는 nil 이어도 된다.
func NewPipeline(quick, deep llm.ChatClient, store report.Store, cache *indicator.Cache, logger *slog.Logger, metrics Metrics) *Pipeline {
	return &Pipeline{
		quick:   quick,
		deep:    deep,
		store:   store,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// QuickOpinion 은 현재 지표 스냅샷을 근거로 종목의 1차 투자 의견을 도출한다.
// 생성 실패는 에러가 아니라 Degraded 의견으로 반환된다.
func (p *Pipeline) QuickOpinion(ctx context.Context, stockName string) model.Opinion {
	prompt := p.buildQuickPrompt(stockName)

	text, err := p.quick.Complete(ctx, prompt, llm.CompleteOptions{
		MaxTokens:   100,
		Temperature: 0.1,
	})
	if err != nil {
		p.logger.Error("신속 의견 생성에 실패했습니다",
			slog.String("stock_name", stockName),
			slog.String("error", err.Error()),
		)
		p.recordLLMFailure(stageQuickOpinion)
		p.recordDegraded()
		return model.Opinion{
			Conclusion:     opinionFailureText,
			Reason:         fallbackReason,
			Degraded:       true,
			DegradedReason: err.Error(),
		}
	}

	conclusion, reason := parseOpinion(text)
	return model.Opinion{Conclusion: conclusion, Reason: reason}
}

// GenerateReport 는 1차 의견을 바탕으로 심층 보고서 본문을 생성한다.
// 실패 시 고정 문구를 본문으로 반환하고 degraded 를 true 로 표시한다.
func (p *Pipeline) GenerateReport(ctx context.Context, stockName string, opinion model.Opinion) (text string, degraded bool) {
	prompt := fmt.Sprintf(`당신은 30년 경력의 베테랑 애널리스트입니다. '%s' 종목에 대한 1차 분석 결과는 '%s'(%s)입니다.

[작성 지침]
1. 이 결론을 뒷받침하는 현재 거시 경제 지표를 분석합니다.
2. 과거에 유사한 경제 상황이 있었는지 찾아보고, 당시 '%s'의 주가 흐름과 현재 상황의 다른 점을 비교 분석해주세요.
3. 모든 내용을 종합하여, 전문적이지만 이해하기 쉬운 최종 투자 보고서를 500자 내외로 작성해주세요.`,
		stockName, opinion.Conclusion, opinion.Reason, stockName)

	body, err := p.deep.Complete(ctx, prompt, llm.CompleteOptions{})
	if err != nil {
		p.logger.Error("심층 보고서 생성에 실패했습니다",
			slog.String("stock_name", stockName),
			slog.String("error", err.Error()),
		)
		p.recordLLMFailure(stageReport)
		p.recordDegraded()
		return reportFailureText, true
	}
	return body, false
}

// CreateInsight 는 인사이트 전체 파이프라인을 실행한다.
// 생성 단계의 실패는 대체 문구로 흡수되지만 보고서 저장 실패는 에러로 반환된다.
func (p *Pipeline) CreateInsight(ctx context.Context, stockName string) (*model.Insight, error) {
	opinion := p.QuickOpinion(ctx, stockName)
	reportText, degraded := p.GenerateReport(ctx, stockName, opinion)

	reportID, err := p.store.Save(reportText)
	if err != nil {
		return nil, fmt.Errorf("보고서 저장에 실패했습니다: %w", err)
	}

	p.logger.Info("인사이트를 생성했습니다",
		slog.String("stock_name", stockName),
		slog.String("report_id", reportID),
		slog.Bool("degraded", opinion.Degraded || degraded),
	)

	return &model.Insight{
		StockName:      stockName,
		Conclusion:     opinion.Conclusion,
		Reason:         opinion.Reason,
		Report:         reportText,
		ReportID:       reportID,
		ReportDegraded: degraded,
	}, nil
}

// AnswerQuestion 은 저장된 보고서만을 근거로 사용자의 질문에 답한다.
// 보고서가 없거나 생성이 실패해도 에러가 아니라 고정 문구를 정상 답변으로 반환한다.
func (p *Pipeline) AnswerQuestion(ctx context.Context, reportID, question string) (string, error) {
	document, err := p.store.Load(reportID)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return reportMissingAnswer, nil
		}
		return "", fmt.Errorf("보고서 조회에 실패했습니다: %w", err)
	}

	prompt := fmt.Sprintf(`당신은 아래 [문서]의 내용을 완벽하게 이해한 AI 비서입니다. 사용자의 [질문]에 대해 [문서]의 내용만을 근거로 친절하게 답변해주세요.

[문서]
%s

[질문]
%s`, document, question)

	answer, err := p.quick.Complete(ctx, prompt, llm.CompleteOptions{
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		p.logger.Error("챗봇 답변 생성에 실패했습니다",
			slog.String("report_id", reportID),
			slog.String("error", err.Error()),
		)
		p.recordLLMFailure(stageChatbot)
		return answerFailureText, nil
	}
	return answer, nil
}

// buildQuickPrompt 는 지표 스냅샷을 고정 순서로 나열한 1단계 프롬프트를 만든다.
func (p *Pipeline) buildQuickPrompt(stockName string) string {
	snap := p.cache.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "당신은 퀀트 분석가입니다. 아래 경제 지표가 '%s' 종목에 미칠 영향을 분석해주세요.\n", stockName)
	b.WriteString("[경제 지표]\n")
	for _, key := range promptIndicatorKeys {
		if value, ok := snap[key]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", key, value)
		}
	}
	b.WriteString(`답변은 반드시 "결론: 매수/매도/중립 중 하나, 근거: 한 문장" 형식으로만 작성해주세요.`)
	return b.String()
}

// parseOpinion 은 "결론: X, 근거: Y" 형식의 응답을 분해한다.
// "근거:" 구분자가 없으면 고정 문구가 근거가 된다.
func parseOpinion(text string) (conclusion, reason string) {
	conclusionPart := text
	if idx := strings.Index(text, "근거:"); idx >= 0 {
		reason = strings.TrimSpace(text[idx+len("근거:"):])
		conclusionPart = text[:idx]
	}

	conclusionPart = strings.TrimSpace(conclusionPart)
	conclusionPart = strings.TrimPrefix(conclusionPart, "결론:")
	conclusion = strings.TrimSpace(strings.Trim(strings.TrimSpace(conclusionPart), ","))

	if reason == "" {
		reason = fallbackReason
	}
	return conclusion, reason
}

func (p *Pipeline) recordLLMFailure(stage string) {
	if p.metrics != nil {
		p.metrics.RecordLLMFailure(stage)
	}
}

func (p *Pipeline) recordDegraded() {
	if p.metrics != nil {
		p.metrics.RecordDegradedInsight()
	}
}
