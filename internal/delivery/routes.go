package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	chatPerMinute  = 10
	voicePerMinute = 5
)

type RouterConfig struct {
	AllowOrigins      []string
	// Только за своим балансером: иначе X-Forwarded-For подделывается
	// и лимиты по IP обходятся.
	TrustProxyHeaders bool
}

// NewRouter собирает весь HTTP-фасад: middleware, CORS, лимиты, маршруты.
func NewRouter(cfg RouterConfig, hChat *ChatHandler, hVoice *VoiceHandler) chi.Router {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.RequestID,
		httputil.RecoverMiddleware,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	RegisterRoutes(r, hChat, hVoice)
	return r
}

// perMinute — лимит на клиентский IP; у каждого маршрута свой счётчик.
func perMinute(n int) func(http.Handler) http.Handler {
	return httprate.Limit(n, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

func RegisterRoutes(r chi.Router, hChat *ChatHandler, hVoice *VoiceHandler) {
	// --- служебные ---
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// --- текст ---
	r.With(perMinute(chatPerMinute)).Post("/chat", hChat.Chat)

	// --- голос ---
	r.With(perMinute(voicePerMinute)).Post("/stt", hVoice.SpeechToText)
	r.With(perMinute(voicePerMinute)).Post("/tts", hVoice.TextToSpeech)
	r.With(perMinute(voicePerMinute)).Post("/voice_chat", hVoice.VoiceChat)

	// --- одноразовые mp3 ---
	r.Get("/audio/{audio_id}", hVoice.GetAudio)
}
