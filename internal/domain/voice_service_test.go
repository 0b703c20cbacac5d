package domain

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/bq_voice_gateway/internal/mocks"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

type voiceFixture struct {
	stt      *mocks.MockTranscriber
	corr     *mocks.MockCorrector
	intent   *mocks.MockIntentClassifier
	tts      *mocks.MockSynthesizer
	store    *mocks.MockAudioStore
	notifier *mocks.MockNotifier
	svc      *VoiceService
}

func newVoiceFixture() *voiceFixture {
	f := &voiceFixture{
		stt: &mocks.MockTranscriber{
			TranscribeFunc: func(ctx context.Context, audio []byte, filename, mimeType string) (string, error) {
				return "bar mat", nil
			},
		},
		corr: &mocks.MockCorrector{
			CorrectFunc: func(ctx context.Context, text string) (string, error) {
				return "dайте мат", nil
			},
		},
		intent: &mocks.MockIntentClassifier{
			ClassifyFunc: func(ctx context.Context, userText string) (string, error) {
				return "```json\n{\"answer\":\"ok\",\"action\":\"open_tab\",\"target\":\"MAP\"}\n```", nil
			},
		},
		tts:      &mocks.MockSynthesizer{},
		store:    mocks.NewMockAudioStore(),
		notifier: &mocks.MockNotifier{},
	}
	f.svc = NewVoiceService(f.stt, f.corr, f.intent, f.tts, f.store, f.notifier, zap.NewNop())
	return f
}

func validInput() VoiceInput {
	return VoiceInput{
		Audio:    []byte("fake-m4a"),
		Filename: "voice.m4a",
		MimeType: "audio/m4a",
		BaseURL:  "https://api.example.kz/",
	}
}

func TestHandleVoiceChat_EndToEnd(t *testing.T) {
	f := newVoiceFixture()

	res, err := f.svc.HandleVoiceChat(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "bar mat", res.RecognizedText)
	assert.Equal(t, "dайте мат", res.CorrectedText)
	assert.Equal(t, "ok", res.FinalAnswer)
	assert.Equal(t, "open_tab", res.Action)
	assert.Equal(t, "map", res.Target)
	require.NotEmpty(t, res.AudioURL)
	assert.True(t, strings.HasPrefix(res.AudioURL, "https://api.example.kz/audio/"), res.AudioURL)

	handle := strings.TrimPrefix(res.AudioURL, "https://api.example.kz/audio/")
	audio, ok := f.store.Get(ports.AudioHandle(handle))
	require.True(t, ok)
	assert.Equal(t, []byte("ID3-fake-mp3"), audio)

	assert.Equal(t, []string{"ok"}, f.tts.Inputs())
}

func TestHandleVoiceChat_StageOrdering(t *testing.T) {
	f := newVoiceFixture()

	_, err := f.svc.HandleVoiceChat(context.Background(), validInput())
	require.NoError(t, err)

	// корректор получает ровно результат STT, классификатор — ровно результат корректора
	assert.Equal(t, []string{"bar mat"}, f.corr.Inputs())
	assert.Equal(t, []string{"dайте мат"}, f.intent.Inputs())
}

func TestHandleVoiceChat_RejectsBeforeNetwork(t *testing.T) {
	cases := []struct {
		name string
		in   VoiceInput
		kind InputErrorKind
	}{
		{"bad mime", VoiceInput{Audio: []byte("x"), MimeType: "video/mp4"}, InputUnsupportedMedia},
		{"empty mime", VoiceInput{Audio: []byte("x")}, InputUnsupportedMedia},
		{"empty file", VoiceInput{Audio: nil, MimeType: "audio/wav"}, InputEmpty},
		{"too large", VoiceInput{Audio: make([]byte, MaxUploadBytes+1), MimeType: "audio/mpeg"}, InputTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newVoiceFixture()

			_, err := f.svc.HandleVoiceChat(context.Background(), tc.in)
			var ce *ClientInputError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.kind, ce.Kind)

			_, err = f.svc.SpeechToText(context.Background(), tc.in)
			require.ErrorAs(t, err, &ce)

			assert.Equal(t, 0, f.stt.Calls())
			assert.Empty(t, f.corr.Inputs())
			assert.Empty(t, f.intent.Inputs())
			assert.Empty(t, f.tts.Inputs())
		})
	}
}

func TestHandleVoiceChat_MaxSizeAccepted(t *testing.T) {
	f := newVoiceFixture()
	in := validInput()
	in.Audio = bytes.Repeat([]byte{1}, MaxUploadBytes)

	_, err := f.svc.HandleVoiceChat(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stt.Calls())
}

func TestHandleVoiceChat_TimeoutAtAnyStage(t *testing.T) {
	stages := []string{StageTranscribe, StageCorrect, StageClassify, StageSynthesize}

	for _, st := range stages {
		t.Run(st, func(t *testing.T) {
			f := newVoiceFixture()
			switch st {
			case StageTranscribe:
				f.stt.TranscribeFunc = func(context.Context, []byte, string, string) (string, error) {
					return "", context.DeadlineExceeded
				}
			case StageCorrect:
				f.corr.CorrectFunc = func(context.Context, string) (string, error) {
					return "", fakeNetTimeout{}
				}
			case StageClassify:
				f.intent.ClassifyFunc = func(context.Context, string) (string, error) {
					return "", context.DeadlineExceeded
				}
			case StageSynthesize:
				f.tts.SynthesizeFunc = func(context.Context, string) ([]byte, error) {
					return nil, fakeNetTimeout{}
				}
			}

			res, err := f.svc.HandleVoiceChat(context.Background(), validInput())
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrUpstreamTimeout)
			assert.Contains(t, err.Error(), st)
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestHandleVoiceChat_UpstreamErrorCarriesStage(t *testing.T) {
	f := newVoiceFixture()
	f.corr.CorrectFunc = func(context.Context, string) (string, error) {
		return "", errors.New("error, status code: 500")
	}

	res, err := f.svc.HandleVoiceChat(context.Background(), validInput())
	assert.Nil(t, res)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageCorrect, ue.Stage)
	assert.Contains(t, err.Error(), "status code: 500")
	assert.NotErrorIs(t, err, ErrUpstreamTimeout)

	assert.Empty(t, f.intent.Inputs())
	assert.Eventually(t, func() bool {
		return len(f.notifier.Sources()) == 1 && f.notifier.Sources()[0] == StageCorrect
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []bool{true}, f.notifier.Bounded())
}

func TestHandleVoiceChat_UnrecoverableReplyIsUpstreamError(t *testing.T) {
	f := newVoiceFixture()
	f.intent.ClassifyFunc = func(context.Context, string) (string, error) {
		return "Извините, я не понял вопрос.", nil
	}

	_, err := f.svc.HandleVoiceChat(context.Background(), validInput())

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageValidate, ue.Stage)
	assert.Empty(t, f.tts.Inputs())
}

func TestHandleVoiceChat_StoreFailure(t *testing.T) {
	f := newVoiceFixture()
	f.store.PutErr = errors.New("disk full")

	_, err := f.svc.HandleVoiceChat(context.Background(), validInput())

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageStore, ue.Stage)
}

func TestHandleVoiceChat_IgnoresCallerCancellation(t *testing.T) {
	f := newVoiceFixture()
	f.stt.TranscribeFunc = func(ctx context.Context, _ []byte, _, _ string) (string, error) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "bar mat", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.HandleVoiceChat(ctx, validInput())
	require.NoError(t, err)
}

func TestSpeechToText(t *testing.T) {
	f := newVoiceFixture()

	res, err := f.svc.SpeechToText(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, &SpeechResult{OriginalText: "bar mat", CorrectedText: "dайте мат"}, res)

	assert.Empty(t, f.intent.Inputs())
	assert.Empty(t, f.tts.Inputs())
}

func TestSpeak(t *testing.T) {
	f := newVoiceFixture()

	h, err := f.svc.Speak(context.Background(), "Сәлем!")
	require.NoError(t, err)
	_, ok := f.store.Get(h)
	assert.True(t, ok)

	_, err = f.svc.Speak(context.Background(), "   ")
	var ce *ClientInputError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, InputInvalid, ce.Kind)
}

func TestAudioURL(t *testing.T) {
	assert.Equal(t, "http://h/audio/abc", AudioURL("http://h/", "abc"))
	assert.Equal(t, "http://h/audio/abc", AudioURL("http://h", "abc"))
}
