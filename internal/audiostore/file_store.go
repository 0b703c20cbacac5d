package audiostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

// FileStore хранит mp3 во временной директории как vc_<handle>.mp3.
type FileStore struct {
	dir    string
	claims *claimSet
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &FileStore{
		dir:    dir,
		claims: newClaimSet(),
	}, nil
}

func (s *FileStore) path(h ports.AudioHandle) string {
	return filepath.Join(s.dir, fileName(h))
}

func (s *FileStore) Put(ctx context.Context, audio []byte) (ports.AudioHandle, error) {
	h := NewHandle()
	// пишем во временный файл и переименовываем, чтобы Open не увидел недописанное
	tmp, err := os.CreateTemp(s.dir, "vc_tmp_*")
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close audio file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(h)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publish audio file: %w", err)
	}
	return h, nil
}

// Open захватывает хэндл: пока файл отдаётся, второй Open вернёт ErrNotFound.
func (s *FileStore) Open(ctx context.Context, h ports.AudioHandle) (io.ReadCloser, int64, error) {
	if !s.claims.acquire(h) {
		return nil, 0, ErrNotFound
	}

	f, err := os.Open(s.path(h))
	if err != nil {
		s.claims.release(h)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open audio file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		s.claims.release(h)
		return nil, 0, fmt.Errorf("stat audio file: %w", err)
	}

	return f, st.Size(), nil
}

func (s *FileStore) Delete(ctx context.Context, h ports.AudioHandle) error {
	defer s.claims.release(h)

	if err := os.Remove(s.path(h)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove audio file: %w", err)
	}
	return nil
}

// Sweep удаляет забытые файлы старше olderThan (в т.ч. недописанные vc_tmp_*).
func (s *FileStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read audio dir: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0

	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "vc_") {
			continue
		}

		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if s.claims.held(handleFromName(name)) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[audiostore] sweep remove %s: %v", name, err)
			continue
		}
		removed++
	}

	return removed, nil
}
