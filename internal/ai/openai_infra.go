package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/bq_voice_gateway/internal/httpclient"
)

const (
	DefaultChatModel      = openai.GPT3Dot5Turbo
	DefaultConnectTimeout = httpclient.DefaultConnectTimeout
	DefaultReadTimeout    = httpclient.DefaultReadTimeout
)

type Options struct {
	BaseURL        string // пусто — api.openai.com
	ChatModel      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

type OpenAIClient struct {
	client    *openai.Client
	chatModel string
}

func NewOpenAIClient(apiKey string, opts Options) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = httpclient.New(opts.ConnectTimeout, opts.ReadTimeout)

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		chatModel: opts.ChatModel,
	}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// describe дописывает к ошибке OpenAI понятную причину для админского алерта.
func describe(err error) error {
	var (
		apiErr *openai.APIError
		reqErr *openai.RequestError
		code   int
	)
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	default:
		return err
	}

	var reason string
	switch {
	case code == http.StatusUnauthorized:
		reason = "Неверный API-ключ OpenAI."
	case code == http.StatusNotFound:
		reason = "Модель не найдена."
	case code == http.StatusTooManyRequests:
		reason = "Превышен лимит OpenAI."
	case code == http.StatusBadRequest:
		reason = "Некорректный запрос к OpenAI."
	case code >= http.StatusInternalServerError:
		reason = "Внутренняя ошибка OpenAI."
	default:
		return err
	}
	return fmt.Errorf("%s %w", reason, err)
}
