package notificator

import (
	"context"
	"sync"
	"time"
)

// Service глушит повторы: одинаковый source+ошибка уходит админам
// не чаще раза в window.
type Service struct {
	infra  Notificator
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

func NewService(infra Notificator, window time.Duration) *Service {
	return &Service{
		infra:  infra,
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *Service) Notify(ctx context.Context, source string, err error, details string) error {
	key := source
	if err != nil {
		key += "|" + err.Error()
	}

	s.mu.Lock()
	now := s.now()
	if t, ok := s.last[key]; ok && now.Sub(t) < s.window {
		s.mu.Unlock()
		return nil
	}
	s.prune(now)
	s.last[key] = now
	s.mu.Unlock()

	return s.infra.Notify(ctx, source, err, details)
}

// prune выкидывает ключи, окно которых уже закрылось. Вызывать под mu.
func (s *Service) prune(now time.Time) {
	for k, t := range s.last {
		if now.Sub(t) >= s.window {
			delete(s.last, k)
		}
	}
}
