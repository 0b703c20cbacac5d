package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultTimeout = 30 * time.Second

type GoogleOptions struct {
	// Ровно одно из двух. Ключ сервисного аккаунта передаётся клиенту напрямую,
	// без GOOGLE_APPLICATION_CREDENTIALS и временных файлов.
	CredentialsJSON []byte
	CredentialsFile string

	LanguageCode string
	Timeout      time.Duration
}

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// GoogleSynthesizer — Google Cloud TTS: ru-RU, женский голос, MP3.
type GoogleSynthesizer struct {
	synthesize synthesizeFunc
	close      func() error
	language   string
	timeout    time.Duration
}

func NewGoogleSynthesizer(ctx context.Context, opts GoogleOptions) (*GoogleSynthesizer, error) {
	var cred option.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		cred = option.WithCredentialsJSON(opts.CredentialsJSON)
	case opts.CredentialsFile != "":
		cred = option.WithCredentialsFile(opts.CredentialsFile)
	default:
		return nil, errors.New("google tts: no service account credentials")
	}

	client, err := texttospeech.NewClient(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("google tts client: %w", err)
	}

	s := newGoogleSynthesizer(func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return client.SynthesizeSpeech(ctx, req)
	}, opts)
	s.close = client.Close
	return s, nil
}

func newGoogleSynthesizer(fn synthesizeFunc, opts GoogleOptions) *GoogleSynthesizer {
	if opts.LanguageCode == "" {
		opts.LanguageCode = "ru-RU"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &GoogleSynthesizer{
		synthesize: fn,
		close:      func() error { return nil },
		language:   opts.LanguageCode,
		timeout:    opts.Timeout,
	}
}

func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.synthesize(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.language,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_FEMALE,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		// gRPC заворачивает дедлайн в статус, errors.Is его не видит
		if status.Code(err) == codes.DeadlineExceeded {
			return nil, fmt.Errorf("google tts: %w", context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("google tts: %w", err)
	}

	if len(resp.GetAudioContent()) == 0 {
		return nil, errors.New("google tts: empty audio")
	}
	return resp.GetAudioContent(), nil
}

func (s *GoogleSynthesizer) Close() error {
	return s.close()
}
