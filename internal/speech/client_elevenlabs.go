package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/bq_voice_gateway/internal/httpclient"
)

const (
	elevenLabsURL       = "https://api.elevenlabs.io/v1/text-to-speech/"
	DefaultElevenVoice  = "EXAVITQu4vr4xnSDxMaL" // Rachel
	DefaultElevenModel  = "eleven_multilingual_v2"
	maxElevenErrorBytes = 4 << 10
)

// ElevenLabsSynthesizer — альтернативный TTS (TTS_PROVIDER=elevenlabs).
type ElevenLabsSynthesizer struct {
	apiKey   string
	voiceID  string
	model    string
	endpoint string
	httpCli  *http.Client
}

func NewElevenLabsSynthesizer(apiKey, voiceID string, connect, read time.Duration) (*ElevenLabsSynthesizer, error) {
	if apiKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY not set")
	}
	if voiceID == "" {
		voiceID = DefaultElevenVoice
	}
	return &ElevenLabsSynthesizer{
		apiKey:   apiKey,
		voiceID:  voiceID,
		model:    DefaultElevenModel,
		endpoint: elevenLabsURL,
		httpCli:  httpclient.New(connect, read),
	}, nil
}

type elevenRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// TEXT → SPEECH
func (c *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(elevenRequest{Text: text, ModelID: c.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+c.voiceID, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxElevenErrorBytes))
		return nil, fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, string(b))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs read: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("elevenlabs: empty audio")
	}
	return audio, nil
}
