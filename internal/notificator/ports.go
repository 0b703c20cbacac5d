package notificator

import "context"

type Notificator interface {
	// Notify — сообщение об ошибке админам; source — где случилась ошибка
	Notify(ctx context.Context, source string, err error, details string) error
}
