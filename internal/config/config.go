package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	TTSGoogle     = "google"
	TTSElevenLabs = "elevenlabs"

	STTOpenAI   = "openai"
	STTDeepgram = "deepgram"

	StoreFile = "file"
	StoreS3   = "s3"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Базовый адрес для audio_url. Пусто — берём из запроса.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`

	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// X-Forwarded-For / X-Real-IP учитываются только за доверенным прокси
	TrustProxyHeaders bool `envconfig:"TRUST_PROXY_HEADERS" default:"false"`

	// OpenAI: Whisper, корректор, классификатор
	OpenAIKey      string        `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL  string        `envconfig:"OPENAI_BASE_URL"`
	ChatModel      string        `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-3.5-turbo"`
	ConnectTimeout time.Duration `envconfig:"UPSTREAM_CONNECT_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"UPSTREAM_READ_TIMEOUT" default:"30s"`

	STTProvider      string `envconfig:"STT_PROVIDER" default:"openai"`
	DeepgramAPIKey   string `envconfig:"DEEPGRAM_API_KEY"`
	DeepgramLanguage string `envconfig:"DEEPGRAM_LANGUAGE" default:"ru"`

	TTSProvider       string `envconfig:"TTS_PROVIDER" default:"google"`
	GCPServiceAccount string `envconfig:"GCP_SA_JSON"`
	GCPServiceFile    string `envconfig:"GCP_SA_FILE"`
	TTSLanguage       string `envconfig:"TTS_LANGUAGE" default:"ru-RU"`
	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `envconfig:"ELEVENLABS_VOICE_ID"`

	// Хранилище одноразовых mp3
	AudioStore    string        `envconfig:"AUDIO_STORE" default:"file"`
	AudioDir      string        `envconfig:"AUDIO_DIR"`
	AudioTTL      time.Duration `envconfig:"AUDIO_TTL" default:"15m"`
	SweepInterval time.Duration `envconfig:"AUDIO_SWEEP_INTERVAL" default:"5m"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION"`
	S3Prefix    string `envconfig:"S3_PREFIX" default:"voice"`
	S3Secure    bool   `envconfig:"S3_SECURE" default:"true"`

	// Алерты админам в телеграм; без токена — no-op
	AlertBotToken string        `envconfig:"ALERT_BOT_TOKEN"`
	AlertChatIDs  []int64       `envconfig:"ALERT_CHAT_IDS"`
	AlertWindow   time.Duration `envconfig:"ALERT_DEDUP_WINDOW" default:"1m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load читает .env (если есть), затем окружение.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv читает только окружение, без .env (контейнеры).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}

	switch c.STTProvider {
	case STTOpenAI:
	case STTDeepgram:
		if c.DeepgramAPIKey == "" {
			return errors.New("DEEPGRAM_API_KEY is required for STT_PROVIDER=deepgram")
		}
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.STTProvider)
	}

	switch c.TTSProvider {
	case TTSGoogle:
		if c.GCPServiceAccount == "" && c.GCPServiceFile == "" {
			return errors.New("GCP_SA_JSON or GCP_SA_FILE is required for TTS_PROVIDER=google")
		}
	case TTSElevenLabs:
		if c.ElevenLabsAPIKey == "" {
			return errors.New("ELEVENLABS_API_KEY is required for TTS_PROVIDER=elevenlabs")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q", c.TTSProvider)
	}

	switch c.AudioStore {
	case StoreFile:
	case StoreS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return errors.New("S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are required for AUDIO_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown AUDIO_STORE %q", c.AudioStore)
	}

	if c.AudioTTL <= 0 || c.SweepInterval <= 0 {
		return errors.New("AUDIO_TTL and AUDIO_SWEEP_INTERVAL must be positive")
	}
	return nil
}
