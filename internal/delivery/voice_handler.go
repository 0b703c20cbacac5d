package delivery

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/bq_voice_gateway/internal/audiostore"
	"github.com/Vovarama1992/bq_voice_gateway/internal/domain"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

// запас на заголовки multipart сверх лимита самого файла
const (
	multipartSlack = 1 << 20
	maxFormMemory  = 32 << 20
)

type VoiceHandler struct {
	voice   *domain.VoiceService
	store   ports.AudioStore
	baseURL string
	log     *logger.ZapLogger
}

// NewVoiceHandler: baseURL пустой — адрес для audio_url берётся из запроса.
func NewVoiceHandler(voice *domain.VoiceService, store ports.AudioStore, baseURL string, log *logger.ZapLogger) *VoiceHandler {
	return &VoiceHandler{
		voice:   voice,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// POST /stt
func (h *VoiceHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	res, err := h.voice.SpeechToText(r.Context(), in)
	if err != nil {
		writeError(w, h.log, "stt", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /voice_chat
func (h *VoiceHandler) VoiceChat(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	in.BaseURL = h.requestBaseURL(r)

	res, err := h.voice.HandleVoiceChat(r.Context(), in)
	if err != nil {
		writeError(w, h.log, "voice_chat", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /tts — form-поле text, в ответ сразу mp3.
func (h *VoiceHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form: "+err.Error())
		return
	}
	texts, ok := r.Form["text"]
	if !ok || len(texts) == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: text")
		return
	}

	handle, err := h.voice.Speak(r.Context(), texts[0])
	if err != nil {
		writeError(w, h.log, "tts", err)
		return
	}
	h.serveAudio(w, r, handle)
}

// GET /audio/{audio_id} — файл отдаётся один раз.
func (h *VoiceHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	handle, err := audiostore.ParseHandle(chi.URLParam(r, "audio_id"))
	if err != nil {
		writeError(w, h.log, "audio", err)
		return
	}
	h.serveAudio(w, r, handle)
}

// serveAudio стримит mp3 и удаляет его после отдачи, даже если клиент отвалился.
func (h *VoiceHandler) serveAudio(w http.ResponseWriter, r *http.Request, handle ports.AudioHandle) {
	ctx := context.WithoutCancel(r.Context())

	rc, size, err := h.store.Open(ctx, handle)
	if err != nil {
		writeError(w, h.log, "audio", err)
		return
	}
	defer func() {
		rc.Close()
		if err := h.store.Delete(ctx, handle); err != nil {
			h.log.Log(logger.LogEntry{Level: "error", Message: "audio delete failed", Error: err, Service: serviceName})
		}
	}()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", `inline; filename="response.mp3"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "audio stream interrupted", Error: err, Service: serviceName})
	}
}

// readUpload достаёт multipart-поле file. Проверки типа и размера — в domain.
func (h *VoiceHandler) readUpload(w http.ResponseWriter, r *http.Request) (domain.VoiceInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadBytes+multipartSlack)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.log, "upload", domain.TooLargeError())
			return domain.VoiceInput{}, false
		}
		writeDetail(w, http.StatusUnprocessableEntity, "invalid multipart: "+err.Error())
		return domain.VoiceInput{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field required: file")
		return domain.VoiceInput{}, false
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read file: "+err.Error())
		return domain.VoiceInput{}, false
	}

	return domain.VoiceInput{
		Audio:    audio,
		Filename: header.Filename,
		MimeType: mediaType(header.Header.Get("Content-Type")),
	}, true
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.TrimSpace(contentType)
	}
	return mt
}

func (h *VoiceHandler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	return scheme + "://" + r.Host
}
