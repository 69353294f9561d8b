// Package llm 은 챗 컴플리션 기반 LLM 호출을 추상화한다.
// HyperCLOVA X 와 OpenAI GPT 모두 OpenAI 호환 API 를 제공하므로
// 같은 클라이언트 구현을 base URL 만 바꿔 사용한다.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// CompleteOptions 는 개별 호출의 생성 파라미터.
// 0 값 필드는 제공자 기본값을 사용한다.
type CompleteOptions struct {
	MaxTokens   int64
	Temperature float64
}

// ChatClient 는 단일 프롬프트를 보내 응답 텍스트를 받는 최소 인터페이스.
type ChatClient interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

// OpenAIClient 는 OpenAI 호환 챗 컴플리션 API 클라이언트.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient 는 기본 엔드포인트(OpenAI)용 클라이언트를 생성한다.
// 제공자가 응답하지 않는 경우 핸들러가 무한정 묶이지 않도록
// 요청마다 timeout 을 상한으로 적용한다.
func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	client := openai.NewClient(requestOptions(apiKey, "", timeout)...)
	return &OpenAIClient{client: &client, model: model}
}

// NewCompatibleClient 는 OpenAI 호환 엔드포인트(HyperCLOVA X 등)용
// 클라이언트를 생성한다.
func NewCompatibleClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	client := openai.NewClient(requestOptions(apiKey, baseURL, timeout)...)
	return &OpenAIClient{client: &client, model: model}
}

// requestOptions 는 공통 클라이언트 옵션을 구성한다. timeout 0 은 상한 없음.
func requestOptions(apiKey, baseURL string, timeout time.Duration) []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return opts
}

// Complete 는 프롬프트 하나를 user 메시지로 보내 응답 본문을 반환한다.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("LLM API 호출에 실패했습니다: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM 응답에 선택지가 없습니다")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ ChatClient = (*OpenAIClient)(nil)
