package domain

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// MaxUploadBytes — 20 MiB, всё что больше отбрасываем до любых сетевых вызовов.
const MaxUploadBytes = 20 * 1024 * 1024

var allowedAudioMIME = map[string]struct{}{
	"audio/m4a":   {},
	"audio/mp4":   {},
	"audio/x-m4a": {},
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
}

func IsAllowedAudioMIME(mimeType string) bool {
	_, ok := allowedAudioMIME[mimeType]
	return ok
}

// ValidateUpload проверяет тип и размер загруженного аудио.
func ValidateUpload(audio []byte, mimeType string) error {
	if !IsAllowedAudioMIME(mimeType) {
		return &ClientInputError{Kind: InputUnsupportedMedia, Message: "Unsupported audio format"}
	}
	if len(audio) == 0 {
		return &ClientInputError{Kind: InputEmpty, Message: "Empty file"}
	}
	if len(audio) > MaxUploadBytes {
		return TooLargeError()
	}
	return nil
}

// TooLargeError — 413; транспорт отдаёт её сам, если тело обрезано раньше.
func TooLargeError() *ClientInputError {
	return &ClientInputError{
		Kind:    InputTooLarge,
		Message: fmt.Sprintf("File too large (max %s)", humanize.IBytes(MaxUploadBytes)),
	}
}
