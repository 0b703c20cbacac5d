package delivery

import (
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/bq_voice_gateway/internal/audiostore"
	"github.com/Vovarama1992/bq_voice_gateway/internal/domain"
)

const serviceName = "bq_voice_gateway"

const rateLimitMessage = "Превышено количество запросов. Пожалуйста, попробуйте позже."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail — формат ошибок, который уже понимает мобильный клиент.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func statusOf(err error) (int, string) {
	var ce *domain.ClientInputError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case domain.InputUnsupportedMedia:
			return http.StatusUnsupportedMediaType, ce.Message
		case domain.InputTooLarge:
			return http.StatusRequestEntityTooLarge, ce.Message
		default:
			return http.StatusBadRequest, ce.Message
		}
	}

	switch {
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "Upstream timeout"
	case errors.Is(err, audiostore.ErrNotFound):
		return http.StatusNotFound, "Audio not found"
	}
	return http.StatusInternalServerError, err.Error()
}

// writeError переводит ошибку сервиса в HTTP-ответ и логирует серверные сбои.
func writeError(w http.ResponseWriter, log *logger.ZapLogger, op string, err error) {
	status, detail := statusOf(err)

	switch {
	case status >= http.StatusInternalServerError:
		log.Log(logger.LogEntry{Level: "error", Message: op + " failed", Error: err, Service: serviceName})
	case status != http.StatusNotFound:
		log.Log(logger.LogEntry{Level: "warn", Message: op + " rejected", Error: err, Service: serviceName})
	}

	writeDetail(w, status, detail)
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": rateLimitMessage})
}
