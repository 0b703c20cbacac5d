package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Vovarama1992/bq_voice_gateway/internal/domain"
)

func TestGoogleSynthesizer_Request(t *testing.T) {
	var got *texttospeechpb.SynthesizeSpeechRequest
	s := newGoogleSynthesizer(func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		got = req
		return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte("ID3")}, nil
	}, GoogleOptions{})

	audio, err := s.Synthesize(context.Background(), "Открываю карту.")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), audio)

	require.NotNil(t, got)
	assert.Equal(t, "Открываю карту.", got.GetInput().GetText())
	assert.Equal(t, "ru-RU", got.GetVoice().GetLanguageCode())
	assert.Equal(t, texttospeechpb.SsmlVoiceGender_FEMALE, got.GetVoice().GetSsmlGender())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, got.GetAudioConfig().GetAudioEncoding())
	assert.NoError(t, s.Close())
}

func TestGoogleSynthesizer_DeadlineIsUpstreamTimeout(t *testing.T) {
	s := newGoogleSynthesizer(func(context.Context, *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return nil, status.Error(codes.DeadlineExceeded, "context deadline exceeded")
	}, GoogleOptions{Timeout: time.Second})

	_, err := s.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, domain.Translate(domain.StageSynthesize, err), domain.ErrUpstreamTimeout)
}

func TestGoogleSynthesizer_Errors(t *testing.T) {
	s := newGoogleSynthesizer(func(context.Context, *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return nil, status.Error(codes.PermissionDenied, "billing disabled")
	}, GoogleOptions{})
	_, err := s.Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing disabled")
	assert.NotErrorIs(t, domain.Translate(domain.StageSynthesize, err), domain.ErrUpstreamTimeout)

	empty := newGoogleSynthesizer(func(context.Context, *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return &texttospeechpb.SynthesizeSpeechResponse{}, nil
	}, GoogleOptions{})
	_, err = empty.Synthesize(context.Background(), "x")
	assert.ErrorContains(t, err, "empty audio")
}

func TestNewGoogleSynthesizer_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleSynthesizer(context.Background(), GoogleOptions{})
	assert.Error(t, err)
}

func TestElevenLabsSynthesizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "el-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var body elevenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, `Скажи "привет"`, body.Text)
		assert.Equal(t, DefaultElevenModel, body.ModelID)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-eleven"))
	}))
	defer srv.Close()

	s, err := NewElevenLabsSynthesizer("el-key", "voice-1", 0, 0)
	require.NoError(t, err)
	s.endpoint = srv.URL + "/v1/text-to-speech/"

	audio, err := s.Synthesize(context.Background(), `Скажи "привет"`)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-eleven"), audio)
}

func TestElevenLabsSynthesizer_Errors(t *testing.T) {
	_, err := NewElevenLabsSynthesizer("", "", 0, 0)
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, _ := NewElevenLabsSynthesizer("k", "", 0, 0)
	s.endpoint = srv.URL + "/"
	_, err = s.Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "quota_exceeded")
}

func TestElevenLabsSynthesizer_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s, _ := NewElevenLabsSynthesizer("k", "", time.Second, 50*time.Millisecond)
	s.endpoint = srv.URL + "/"

	_, err := s.Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(domain.Translate(domain.StageSynthesize, err), domain.ErrUpstreamTimeout))
}
