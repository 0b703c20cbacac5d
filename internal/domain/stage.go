package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/bq_voice_gateway/internal/metrics"
	"github.com/Vovarama1992/bq_voice_gateway/internal/notificator"
)

// Стадии пайплайнов — они же метки в логах, метриках и ошибках.
const (
	StageTranscribe = "transcribe"
	StageCorrect    = "correct"
	StageClassify   = "classify"
	StageValidate   = "validate"
	StageSynthesize = "synthesize"
	StageStore      = "store"
)

// alertTimeout ограничивает отправку одного алерта, чтобы зависший
// Telegram не копил горутины.
const alertTimeout = 10 * time.Second

// run: один проход пайплайна (один запрос).
type run struct {
	id       string
	log      *zap.Logger
	notifier notificator.Notificator
}

func newRun(log *zap.Logger, notifier notificator.Notificator, pipeline string) *run {
	id := xid.New().String()
	return &run{
		id:       id,
		log:      log.With(zap.String("pipeline", pipeline), zap.String("run", id)),
		notifier: notifier,
	}
}

// stage выполняет один шаг, пишет метрики и приводит ошибку к таксономии.
func stage[T any](ctx context.Context, r *run, name string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	out, err := fn(ctx)
	elapsed := time.Since(start)

	if err == nil {
		metrics.ObserveStage(name, metrics.StatusSuccess, elapsed)
		r.log.Debug("stage done", zap.String("stage", name), zap.Duration("took", elapsed))
		return out, nil
	}

	err = Translate(name, err)
	if errors.Is(err, ErrUpstreamTimeout) {
		metrics.ObserveStage(name, metrics.StatusTimeout, elapsed)
		r.log.Warn("stage timeout", zap.String("stage", name), zap.Duration("took", elapsed), zap.Error(err))
		return out, err
	}

	metrics.ObserveStage(name, metrics.StatusError, elapsed)
	r.log.Error("stage failed", zap.String("stage", name), zap.Duration("took", elapsed), zap.Error(err))

	var ue *UpstreamError
	if errors.As(err, &ue) {
		go func() {
			actx, cancel := context.WithTimeout(context.Background(), alertTimeout)
			defer cancel()
			if nerr := r.notifier.Notify(actx, name, ue.Err, "run="+r.id); nerr != nil {
				r.log.Warn("alert not delivered", zap.String("stage", name), zap.Error(nerr))
			}
		}()
	}
	return out, err
}
