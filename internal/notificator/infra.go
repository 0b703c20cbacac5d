package notificator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender — то, что нужно от tgbotapi.BotAPI
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// sendTimeout: tgbotapi не принимает context, поэтому запрос к Bot API
// ограничен таймаутом самого HTTP-клиента.
const sendTimeout = 10 * time.Second

type Infra struct {
	bot     sender
	chatIDs []int64
}

// NewTelegramInfra поднимает бота для алертов. Без токена вернёт ошибку —
// в этом случае main подставит Nop.
func NewTelegramInfra(token string, chatIDs []int64) (*Infra, error) {
	if token == "" {
		return nil, fmt.Errorf("alert bot token is empty")
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("init alert bot: %w", err)
	}
	log.Printf("[notificator] ready: @%s, admins=%d", bot.Self.UserName, len(chatIDs))
	return &Infra{bot: bot, chatIDs: chatIDs}, nil
}

func (i *Infra) Notify(ctx context.Context, source string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Ошибка в BQ-ассистенте (%s)\n\nОшибка: %v\n\nДетали: %s",
		source,
		err,
		details,
	)

	for _, chatID := range i.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, sendErr := i.bot.Send(tgbotapi.NewMessage(chatID, text)); sendErr != nil {
			log.Printf("[notificator] send fail to %d: %v", chatID, sendErr)
			return sendErr
		}
	}

	return nil
}

// Nop используется, когда алерты не настроены.
type Nop struct{}

func (Nop) Notify(context.Context, string, error, string) error { return nil }
