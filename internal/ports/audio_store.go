package ports

import (
	"context"
	"io"
	"time"
)

// AudioHandle — непрозрачный одноразовый идентификатор аудиофайла.
type AudioHandle string

// Временное хранилище синтезированного аудио.
type AudioStore interface {
	Put(ctx context.Context, audio []byte) (AudioHandle, error)
	// Open отдаёт содержимое и размер; повторное чтение того же хэндла — ErrNotFound
	Open(ctx context.Context, h AudioHandle) (io.ReadCloser, int64, error)
	// Delete идемпотентен: отсутствующий файл — не ошибка
	Delete(ctx context.Context, h AudioHandle) error
	// Sweep удаляет файлы старше olderThan, которые так и не забрали
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}
