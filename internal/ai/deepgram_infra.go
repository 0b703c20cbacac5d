package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/bq_voice_gateway/internal/httpclient"
)

const deepgramURL = "https://api.deepgram.com/v1/listen"

// DeepgramTranscriber — альтернативный STT (STT_PROVIDER=deepgram).
type DeepgramTranscriber struct {
	apiKey   string
	endpoint string
	language string
	client   *http.Client
}

func NewDeepgramTranscriber(apiKey, language string, connect, read time.Duration) (*DeepgramTranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("DEEPGRAM_API_KEY not set")
	}
	if language == "" {
		language = "ru"
	}
	return &DeepgramTranscriber{
		apiKey:   apiKey,
		endpoint: deepgramURL,
		language: language,
		client:   httpclient.New(connect, read),
	}, nil
}

func (c *DeepgramTranscriber) Transcribe(ctx context.Context, audio []byte, _ string, mimeType string) (string, error) {
	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("smart_format", "true")
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("deepgram read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram error %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode deepgram: %w", err)
	}

	if len(parsed.Results.Channels) == 0 ||
		len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("deepgram: empty transcript")
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
