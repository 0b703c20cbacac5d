package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Vovarama1992/bq_voice_gateway/internal/ai"
	"github.com/Vovarama1992/bq_voice_gateway/internal/audiostore"
	"github.com/Vovarama1992/bq_voice_gateway/internal/config"
	"github.com/Vovarama1992/bq_voice_gateway/internal/delivery"
	"github.com/Vovarama1992/bq_voice_gateway/internal/domain"
	"github.com/Vovarama1992/bq_voice_gateway/internal/metrics"
	"github.com/Vovarama1992/bq_voice_gateway/internal/notificator"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
	"github.com/Vovarama1992/bq_voice_gateway/internal/speech"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapCfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	baseLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var alerts notificator.Notificator = notificator.Nop{}
	if cfg.AlertBotToken != "" {
		tg, err := notificator.NewTelegramInfra(cfg.AlertBotToken, cfg.AlertChatIDs)
		if err != nil {
			log.Fatalf("failed to init alert bot: %v", err)
		}
		alerts = tg
	} else {
		log.Printf("[alerts] ALERT_BOT_TOKEN not set, admin alerts disabled")
	}
	notifier := notificator.NewService(alerts, cfg.AlertWindow)

	// =========================================================================
	// CLIENTS (STT / LLM / TTS)
	// =========================================================================

	openAIClient, err := ai.NewOpenAIClient(cfg.OpenAIKey, ai.Options{
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.ChatModel,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
	})
	if err != nil {
		log.Fatalf("failed to init openai: %v", err)
	}

	var stt ports.Transcriber = ai.NewWhisperTranscriber(openAIClient)
	if cfg.STTProvider == config.STTDeepgram {
		dg, err := ai.NewDeepgramTranscriber(cfg.DeepgramAPIKey, cfg.DeepgramLanguage, cfg.ConnectTimeout, cfg.ReadTimeout)
		if err != nil {
			log.Fatalf("failed to init deepgram: %v", err)
		}
		stt = dg
	}

	var tts ports.Synthesizer
	switch cfg.TTSProvider {
	case config.TTSElevenLabs:
		tts, err = speech.NewElevenLabsSynthesizer(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, cfg.ConnectTimeout, cfg.ReadTimeout)
		if err != nil {
			log.Fatalf("failed to init elevenlabs: %v", err)
		}
	default:
		google, err := speech.NewGoogleSynthesizer(ctx, speech.GoogleOptions{
			CredentialsJSON: []byte(cfg.GCPServiceAccount),
			CredentialsFile: cfg.GCPServiceFile,
			LanguageCode:    cfg.TTSLanguage,
			Timeout:         cfg.ConnectTimeout + cfg.ReadTimeout,
		})
		if err != nil {
			log.Fatalf("failed to init google tts: %v", err)
		}
		defer google.Close()
		tts = google
	}

	// =========================================================================
	// AUDIO STORE
	// =========================================================================

	var store ports.AudioStore
	switch cfg.AudioStore {
	case config.StoreS3:
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		store, err = audiostore.NewS3Store(initCtx, audiostore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Prefix:    cfg.S3Prefix,
			Secure:    cfg.S3Secure,
		})
		cancel()
	default:
		store, err = audiostore.NewFileStore(cfg.AudioDir)
	}
	if err != nil {
		log.Fatalf("failed to init audio store: %v", err)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	chatService := domain.NewChatService(
		ai.NewGuideClassifier(openAIClient),
		notifier,
		baseLogger,
	)

	voiceService := domain.NewVoiceService(
		stt,
		ai.NewCorrector(openAIClient),
		ai.NewShortClassifier(openAIClient),
		tts,
		store,
		notifier,
		baseLogger,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := delivery.NewRouter(
		delivery.RouterConfig{
			AllowOrigins:      cfg.CORSAllowOrigins,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
		},
		delivery.NewChatHandler(chatService, zl),
		delivery.NewVoiceHandler(voiceService, store, cfg.PublicBaseURL, zl),
	)

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.Sweep(ctx, cfg.AudioTTL)
				metrics.RecordSwept(n)
				if err != nil {
					log.Printf("[audio-sweep] error: %v", err)
				} else if n > 0 {
					log.Printf("[audio-sweep] removed %d unclaimed files", n)
				}
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[shutdown] error: %v", err)
		}
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + srv.Addr,
		Service: "bq_voice_gateway",
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	<-idle
	log.Printf("[shutdown] server stopped")
}
