package delivery

import (
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/bq_voice_gateway/internal/domain"
)

const maxChatBody = 64 << 10

type ChatHandler struct {
	chat *domain.ChatService
	log  *logger.ZapLogger
}

func NewChatHandler(chat *domain.ChatService, log *logger.ZapLogger) *ChatHandler {
	return &ChatHandler{
		chat: chat,
		log:  log,
	}
}

// POST /chat  {"message": "..."}
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeDetail(w, status, "failed to read body: "+err.Error())
		return
	}

	var req struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json: "+err.Error())
		return
	}
	if req.Message == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: message")
		return
	}

	env, err := h.chat.HandleChat(r.Context(), *req.Message)
	if err != nil {
		writeError(w, h.log, "chat", err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}
