package domain

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Vovarama1992/bq_voice_gateway/internal/metrics"
	"github.com/Vovarama1992/bq_voice_gateway/internal/notificator"
	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
	"github.com/Vovarama1992/bq_voice_gateway/internal/reply"
)

// VoiceInput — загруженный файл плюс базовый адрес для audio_url.
type VoiceInput struct {
	Audio    []byte
	Filename string
	MimeType string
	BaseURL  string
}

type SpeechResult struct {
	OriginalText  string `json:"original_text"`
	CorrectedText string `json:"corrected_text"`
}

type VoiceResult struct {
	RecognizedText string `json:"recognized_text"`
	CorrectedText  string `json:"corrected_text"`
	FinalAnswer    string `json:"final_answer"`
	Action         string `json:"action"`
	Target         string `json:"target"`
	AudioURL       string `json:"audio_url"`
}

type VoiceService struct {
	stt       ports.Transcriber
	corrector ports.Corrector
	intent    ports.IntentClassifier
	tts       ports.Synthesizer
	store     ports.AudioStore
	notifier  notificator.Notificator
	log       *zap.Logger
}

func NewVoiceService(
	stt ports.Transcriber,
	corrector ports.Corrector,
	intent ports.IntentClassifier,
	tts ports.Synthesizer,
	store ports.AudioStore,
	notifier notificator.Notificator,
	log *zap.Logger,
) *VoiceService {
	return &VoiceService{
		stt:       stt,
		corrector: corrector,
		intent:    intent,
		tts:       tts,
		store:     store,
		notifier:  notifier,
		log:       log,
	}
}

// SpeechToText распознаёт и исправляет смешанную речь.
func (s *VoiceService) SpeechToText(ctx context.Context, in VoiceInput) (*SpeechResult, error) {
	if err := ValidateUpload(in.Audio, in.MimeType); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	r := s.start("stt", in)

	recognized, corrected, err := s.recognize(ctx, r, in)
	if err != nil {
		return nil, err
	}

	return &SpeechResult{OriginalText: recognized, CorrectedText: corrected}, nil
}

// HandleVoiceChat — полный голосовой цикл:
// распознать → исправить → классифицировать → валидировать → озвучить → сохранить.
func (s *VoiceService) HandleVoiceChat(ctx context.Context, in VoiceInput) (*VoiceResult, error) {
	if err := ValidateUpload(in.Audio, in.MimeType); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	r := s.start("voice_chat", in)

	recognized, corrected, err := s.recognize(ctx, r, in)
	if err != nil {
		return nil, err
	}

	raw, err := stage(ctx, r, StageClassify, func(ctx context.Context) (string, error) {
		return s.intent.Classify(ctx, corrected)
	})
	if err != nil {
		return nil, err
	}

	env, err := stage(ctx, r, StageValidate, func(context.Context) (reply.Envelope, error) {
		return reply.Parse(raw)
	})
	if err != nil {
		return nil, err
	}

	handle, err := s.synthesizeAndStore(ctx, r, env.Answer)
	if err != nil {
		return nil, err
	}

	r.log.Info("voice chat done",
		zap.String("action", env.Action),
		zap.String("target", env.Target),
		zap.String("audio", string(handle)))

	return &VoiceResult{
		RecognizedText: recognized,
		CorrectedText:  corrected,
		FinalAnswer:    env.Answer,
		Action:         env.Action,
		Target:         env.Target,
		AudioURL:       AudioURL(in.BaseURL, handle),
	}, nil
}

// Speak озвучивает произвольный текст и кладёт mp3 в хранилище.
func (s *VoiceService) Speak(ctx context.Context, text string) (ports.AudioHandle, error) {
	if strings.TrimSpace(text) == "" {
		return "", &ClientInputError{Kind: InputInvalid, Message: "Empty text"}
	}
	ctx = context.WithoutCancel(ctx)
	r := newRun(s.log, s.notifier, "tts")

	return s.synthesizeAndStore(ctx, r, text)
}

func (s *VoiceService) start(pipeline string, in VoiceInput) *run {
	r := newRun(s.log, s.notifier, pipeline)
	metrics.RecordAudioBytes("in", len(in.Audio))
	r.log.Info("upload accepted",
		zap.String("filename", in.Filename),
		zap.String("mime", in.MimeType),
		zap.String("size", humanize.IBytes(uint64(len(in.Audio)))))
	return r
}

// recognize — транскрипция и коррекция строго по очереди:
// корректор получает ровно то, что вернул STT.
func (s *VoiceService) recognize(ctx context.Context, r *run, in VoiceInput) (string, string, error) {
	recognized, err := stage(ctx, r, StageTranscribe, func(ctx context.Context) (string, error) {
		return s.stt.Transcribe(ctx, in.Audio, in.Filename, in.MimeType)
	})
	if err != nil {
		return "", "", err
	}

	corrected, err := stage(ctx, r, StageCorrect, func(ctx context.Context) (string, error) {
		return s.corrector.Correct(ctx, recognized)
	})
	if err != nil {
		return "", "", err
	}

	return recognized, corrected, nil
}

func (s *VoiceService) synthesizeAndStore(ctx context.Context, r *run, text string) (ports.AudioHandle, error) {
	audio, err := stage(ctx, r, StageSynthesize, func(ctx context.Context) ([]byte, error) {
		return s.tts.Synthesize(ctx, text)
	})
	if err != nil {
		return "", err
	}
	metrics.RecordAudioBytes("out", len(audio))

	return stage(ctx, r, StageStore, func(ctx context.Context) (ports.AudioHandle, error) {
		return s.store.Put(ctx, audio)
	})
}

// AudioURL собирает публичную ссылку на одноразовый файл.
func AudioURL(baseURL string, h ports.AudioHandle) string {
	return strings.TrimRight(baseURL, "/") + "/audio/" + string(h)
}
