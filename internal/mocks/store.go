package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/Vovarama1992/bq_voice_gateway/internal/audiostore"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

// MockAudioStore is an in-memory ports.AudioStore. Handles and the not-found
// error are the real audiostore ones, so it also works behind the HTTP layer
type MockAudioStore struct {
	PutErr error

	mu    sync.Mutex
	blobs map[ports.AudioHandle][]byte
}

func NewMockAudioStore() *MockAudioStore {
	return &MockAudioStore{blobs: make(map[ports.AudioHandle][]byte)}
}

func (m *MockAudioStore) Put(ctx context.Context, audio []byte) (ports.AudioHandle, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := audiostore.NewHandle()
	m.blobs[h] = append([]byte(nil), audio...)
	return h, nil
}

func (m *MockAudioStore) Open(ctx context.Context, h ports.AudioHandle) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[h]
	if !ok {
		return nil, 0, audiostore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (m *MockAudioStore) Delete(ctx context.Context, h ports.AudioHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, h)
	return nil
}

func (m *MockAudioStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, nil
}

func (m *MockAudioStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

func (m *MockAudioStore) Get(h ports.AudioHandle) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[h]
	return b, ok
}

// MockNotifier records admin alerts
type MockNotifier struct {
	mu        sync.Mutex
	sources   []string
	deadlines []bool
}

func (m *MockNotifier) Notify(ctx context.Context, source string, err error, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, source)
	_, ok := ctx.Deadline()
	m.deadlines = append(m.deadlines, ok)
	return nil
}

// Bounded reports, per alert, whether Notify got a context with a deadline
func (m *MockNotifier) Bounded() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.deadlines...)
}

func (m *MockNotifier) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}
