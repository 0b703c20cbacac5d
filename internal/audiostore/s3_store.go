package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Vovarama1992/bq_voice_gateway/internal/ports"
)

const claimsDir = "claims"

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	Secure    bool
}

// S3Store — то же одноразовое хранилище, но в бакете (несколько инстансов за балансером).
type S3Store struct {
	client *minio.Client
	bucket string
	prefix string
	claims *claimSet
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		claims: newClaimSet(),
	}, nil
}

func (s *S3Store) key(h ports.AudioHandle) string {
	return path.Join(s.prefix, fileName(h))
}

// claimKey: пустой маркер «файл уже отдаётся». Создаётся условным PUT,
// поэтому из нескольких инстансов выигрывает ровно один.
func (s *S3Store) claimKey(h ports.AudioHandle) string {
	return path.Join(s.prefix, claimsDir, fileName(h))
}

func (s *S3Store) Put(ctx context.Context, audio []byte) (ports.AudioHandle, error) {
	h := NewHandle()

	_, err := s.client.PutObject(ctx, s.bucket, s.key(h), bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType:  "audio/mpeg",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return h, nil
}

func (s *S3Store) Open(ctx context.Context, h ports.AudioHandle) (io.ReadCloser, int64, error) {
	if !s.claims.acquire(h) {
		return nil, 0, ErrNotFound
	}
	if err := s.claim(ctx, h); err != nil {
		s.claims.release(h)
		return nil, 0, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key(h), minio.GetObjectOptions{})
	if err != nil {
		s.unclaim(ctx, h)
		return nil, 0, s.translate(err)
	}

	// GetObject ленивый: отсутствие объекта видно только на Stat
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		s.unclaim(ctx, h)
		return nil, 0, s.translate(err)
	}

	return obj, info.Size, nil
}

// claim занимает хэндл во всём кластере. Маркер уже есть: файл отдаёт
// другой инстанс (или уже отдал), для клиента это ErrNotFound.
func (s *S3Store) claim(ctx context.Context, h ports.AudioHandle) error {
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	opts.SetMatchETagExcept("*")

	_, err := s.client.PutObject(ctx, s.bucket, s.claimKey(h), bytes.NewReader(nil), 0, opts)
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).StatusCode == http.StatusPreconditionFailed {
		return ErrNotFound
	}
	return fmt.Errorf("claim object: %w", err)
}

func (s *S3Store) unclaim(ctx context.Context, h ports.AudioHandle) {
	defer s.claims.release(h)
	if err := s.client.RemoveObject(ctx, s.bucket, s.claimKey(h), minio.RemoveObjectOptions{}); err != nil {
		log.Printf("[audiostore] unclaim %s: %v", h, err)
	}
}

func (s *S3Store) translate(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return ErrNotFound
	}
	return fmt.Errorf("get object: %w", err)
}

func (s *S3Store) Delete(ctx context.Context, h ports.AudioHandle) error {
	defer s.claims.release(h)

	// S3 не ругается на удаление отсутствующего ключа
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(h), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	// маркер снимаем только после самого файла, иначе его успеют открыть ещё раз
	if err := s.client.RemoveObject(ctx, s.bucket, s.claimKey(h), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove claim: %w", err)
	}
	return nil
}

// Sweep удаляет неотданные файлы старше olderThan и маркеры, оставшиеся
// после упавших инстансов.
func (s *S3Store) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}

	removed, err := s.sweepPrefix(ctx, prefix+"vc_", cutoff)
	if err != nil {
		return removed, err
	}
	if _, err := s.sweepPrefix(ctx, prefix+claimsDir+"/vc_", cutoff); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *S3Store) sweepPrefix(ctx context.Context, prefix string, cutoff time.Time) (int, error) {
	removed := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return removed, fmt.Errorf("list objects: %w", obj.Err)
		}
		if obj.LastModified.After(cutoff) || s.claims.held(handleFromName(path.Base(obj.Key))) {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			log.Printf("[audiostore] sweep remove %s: %v", obj.Key, err)
			continue
		}
		removed++
	}
	return removed, nil
}
