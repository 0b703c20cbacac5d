package domain

import (
	"context"

	"go.uber.org/zap"

	"github.com/Vovarama1992/bq_voice_gateway/internal/notificator"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
	"github.com/Vovarama1992/bq_voice_gateway/internal/reply"
)

// Бэкенда категорий и цен нет, поэтому ответы модели на эти темы не показываем как есть.
const (
	CategoriesUnavailableSuffix = "\n(Категории временно недоступны)"
	MinPriceUnavailableAnswer   = "Информация о минимальных ценах временно недоступна."
)

type ChatService struct {
	intent   ports.IntentClassifier
	notifier notificator.Notificator
	log      *zap.Logger
}

func NewChatService(intent ports.IntentClassifier, notifier notificator.Notificator, log *zap.Logger) *ChatService {
	return &ChatService{
		intent:   intent,
		notifier: notifier,
		log:      log,
	}
}

// HandleChat — текстовый запрос: классификация → валидация → продуктовые правки.
func (s *ChatService) HandleChat(ctx context.Context, userText string) (reply.Envelope, error) {
	ctx = context.WithoutCancel(ctx)
	r := newRun(s.log, s.notifier, "chat")

	raw, err := stage(ctx, r, StageClassify, func(ctx context.Context) (string, error) {
		return s.intent.Classify(ctx, userText)
	})
	if err != nil {
		return reply.Envelope{}, err
	}

	env, err := stage(ctx, r, StageValidate, func(context.Context) (reply.Envelope, error) {
		return reply.Parse(raw)
	})
	if err != nil {
		return reply.Envelope{}, err
	}

	env = ApplyPolicy(env)
	r.log.Info("chat done", zap.String("action", env.Action), zap.String("target", env.Target))
	return env, nil
}

// ApplyPolicy перекрывает ответы про категории и минимальные цены.
func ApplyPolicy(env reply.Envelope) reply.Envelope {
	switch env.Action {
	case reply.ActionShowCategory:
		env.Answer += CategoriesUnavailableSuffix
	case reply.ActionShowMinPrice:
		env.Answer = MinPriceUnavailableAnswer
	}
	return env
}
