package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUpstreamTimeout — удалённый сервис не ответил вовремя (504).
var ErrUpstreamTimeout = errors.New("upstream timeout")

// UpstreamError — любой другой сбой удалённого сервиса (500).
// Stage — шаг пайплайна, на котором всё сломалось.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type InputErrorKind int

const (
	InputInvalid InputErrorKind = iota
	InputEmpty
	InputTooLarge
	InputUnsupportedMedia
)

// ClientInputError — ошибка, которую исправляет сам клиент (4xx).
type ClientInputError struct {
	Kind    InputErrorKind
	Message string
}

func (e *ClientInputError) Error() string { return e.Message }

// Translate приводит ошибку клиента удалённого сервиса к таксономии:
// таймауты → ErrUpstreamTimeout, остальное → *UpstreamError.
func Translate(stage string, err error) error {
	if err == nil {
		return nil
	}

	if isTimeout(err) {
		return fmt.Errorf("%s: %w", stage, ErrUpstreamTimeout)
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}

	var ce *ClientInputError
	if errors.As(err, &ce) {
		return err
	}

	return &UpstreamError{Stage: stage, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
