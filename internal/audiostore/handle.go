package audiostore

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

// ErrNotFound — хэндл неизвестен, уже отдан или истёк.
var ErrNotFound = errors.New("audio not found")

var handlePattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NewHandle возвращает 32 hex-символа случайного UUIDv4.
func NewHandle() ports.AudioHandle {
	return ports.AudioHandle(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// ParseHandle пропускает только то, что могло быть выдано NewHandle,
// всё остальное — ErrNotFound (заодно закрывает обход путей).
func ParseHandle(s string) (ports.AudioHandle, error) {
	if !handlePattern.MatchString(s) {
		return "", ErrNotFound
	}
	return ports.AudioHandle(s), nil
}

func fileName(h ports.AudioHandle) string {
	return "vc_" + string(h) + ".mp3"
}

func handleFromName(name string) ports.AudioHandle {
	return ports.AudioHandle(strings.TrimSuffix(strings.TrimPrefix(name, "vc_"), ".mp3"))
}
