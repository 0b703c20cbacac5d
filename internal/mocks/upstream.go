package mocks

import (
	"context"
	"sync"
)

// MockTranscriber is a mock implementation of ports.Transcriber
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audio []byte, filename, mimeType string) (string, error)

	mu    sync.Mutex
	calls int
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, filename, mimeType string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, filename, mimeType)
	}
	return "", nil
}

func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCorrector is a mock implementation of ports.Corrector
type MockCorrector struct {
	CorrectFunc func(ctx context.Context, text string) (string, error)

	mu     sync.Mutex
	inputs []string
}

func (m *MockCorrector) Correct(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()
	if m.CorrectFunc != nil {
		return m.CorrectFunc(ctx, text)
	}
	return text, nil
}

func (m *MockCorrector) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// MockIntentClassifier is a mock implementation of ports.IntentClassifier
type MockIntentClassifier struct {
	ClassifyFunc func(ctx context.Context, userText string) (string, error)

	mu     sync.Mutex
	inputs []string
}

func (m *MockIntentClassifier) Classify(ctx context.Context, userText string) (string, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, userText)
	m.mu.Unlock()
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, userText)
	}
	return `{"answer":"","action":"none","target":"none"}`, nil
}

func (m *MockIntentClassifier) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}

// MockSynthesizer is a mock implementation of ports.Synthesizer
type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)

	mu     sync.Mutex
	inputs []string
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return []byte("ID3-fake-mp3"), nil
}

func (m *MockSynthesizer) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.inputs...)
}
