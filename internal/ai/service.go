package ai

import (
	"bytes"
	"context"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

const (
	correctorMaxTokens = 200
	intentMaxTokens    = 700
)

// WhisperTranscriber распознаёт голос через whisper-1.
type WhisperTranscriber struct {
	c *OpenAIClient
}

func NewWhisperTranscriber(c *OpenAIClient) *WhisperTranscriber {
	return &WhisperTranscriber{c: c}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename, mimeType string) (string, error) {
	resp, err := t.c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model: openai.Whisper1,
		// по имени файла API определяет контейнер
		FilePath: uploadName(filename, mimeType),
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", describe(err)
	}
	return resp.Text, nil
}

var extByMIME = map[string]string{
	"audio/mpeg":  ".mp3",
	"audio/mp3":   ".mp3",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/m4a":   ".m4a",
	"audio/x-m4a": ".m4a",
	"audio/mp4":   ".m4a",
	"audio/aac":   ".aac",
	"audio/ogg":   ".ogg",
	"audio/webm":  ".webm",
}

func uploadName(filename, mimeType string) string {
	name := filepath.Base(filename)
	if name != "." && name != "/" && filepath.Ext(name) != "" {
		return name
	}
	if ext, ok := extByMIME[mimeType]; ok {
		return "voice" + ext
	}
	return "voice.mp3"
}

// Corrector переписывает смешанную казахско-русскую речь.
type Corrector struct {
	c *OpenAIClient
}

func NewCorrector(c *OpenAIClient) *Corrector {
	return &Corrector{c: c}
}

func (s *Corrector) Correct(ctx context.Context, text string) (string, error) {
	return s.c.complete(ctx, correctorPrompt, text, correctorMaxTokens)
}

// IntentClassifier возвращает сырой ответ модели; разбор — в reply.
type IntentClassifier struct {
	c      *OpenAIClient
	prompt string
}

// NewGuideClassifier: полный промпт UI-гида (текстовый чат).
func NewGuideClassifier(c *OpenAIClient) *IntentClassifier {
	return &IntentClassifier{c: c, prompt: fullGuidePrompt}
}

// NewShortClassifier: короткий промпт (голосовой чат).
func NewShortClassifier(c *OpenAIClient) *IntentClassifier {
	return &IntentClassifier{c: c, prompt: shortGuidePrompt}
}

func (s *IntentClassifier) Classify(ctx context.Context, userText string) (string, error) {
	return s.c.complete(ctx, s.prompt, userText, intentMaxTokens)
}
