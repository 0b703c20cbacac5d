package audiostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store_KeyLayout(t *testing.T) {
	s := &S3Store{prefix: "voice", claims: newClaimSet()}
	h := NewHandle()

	key := s.key(h)
	assert.Equal(t, "voice/vc_"+string(h)+".mp3", key)
	assert.Equal(t, h, handleFromName(path.Base(key)))
	assert.Equal(t, "voice/claims/vc_"+string(h)+".mp3", s.claimKey(h))
}

func TestS3Store_TranslateNotFound(t *testing.T) {
	s := &S3Store{}

	assert.ErrorIs(t, s.translate(minio.ErrorResponse{Code: "NoSuchKey"}), ErrNotFound)
	assert.ErrorIs(t, s.translate(minio.ErrorResponse{Code: "NoSuchObject"}), ErrNotFound)

	err := s.translate(minio.ErrorResponse{Code: "AccessDenied", Message: "denied"})
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, err)

	assert.NotErrorIs(t, s.translate(errors.New("connection reset")), ErrNotFound)
}

func TestS3Store_OpenWhileClaimed(t *testing.T) {
	s := &S3Store{claims: newClaimSet()}
	h := NewHandle()
	s.claims.acquire(h)

	_, _, err := s.Open(context.Background(), h)
	assert.ErrorIs(t, err, ErrNotFound)
}

// fakeBucket: минимальный S3 для одного бакета, с условным PUT как у MinIO.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/audio/")

	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.objects[key]

	switch r.Method {
	case http.MethodPut:
		_, _ = io.Copy(io.Discard, r.Body)
		if ok && r.Header.Get("If-None-Match") == "*" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusPreconditionFailed)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>PreconditionFailed</Code><Message>At least one of the pre-conditions you specified did not hold</Message><Key>%s</Key><BucketName>audio</BucketName><RequestId>1</RequestId></Error>`, key)
			return
		}
		b.objects[key] = []byte{}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead, http.MethodGet:
		if !ok {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>%s</Key><BucketName>audio</BucketName><RequestId>1</RequestId></Error>`, key)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newReplica(t *testing.T, endpoint string) *S3Store {
	t.Helper()
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return &S3Store{client: client, bucket: "audio", prefix: "voice", claims: newClaimSet()}
}

func TestS3Store_SingleServeAcrossReplicas(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	srv := httptest.NewServer(bucket)
	defer srv.Close()

	endpoint := strings.TrimPrefix(srv.URL, "http://")
	a, b := newReplica(t, endpoint), newReplica(t, endpoint)

	h := NewHandle()
	bucket.objects[a.key(h)] = []byte("ID3-s3")
	ctx := context.Background()

	rc, size, err := a.Open(ctx, h)
	require.NoError(t, err)
	assert.EqualValues(t, 6, size)
	assert.True(t, bucket.has(a.claimKey(h)))

	// второй инстанс не может отдать тот же файл параллельно
	_, _, err = b.Open(ctx, h)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, bucket.has(a.claimKey(h)))

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ID3-s3", string(data))
	require.NoError(t, rc.Close())
	require.NoError(t, a.Delete(ctx, h))

	assert.False(t, bucket.has(a.key(h)))
	assert.False(t, bucket.has(a.claimKey(h)))

	// после отдачи файла нет ни у кого, маркер за собой не остаётся
	_, _, err = b.Open(ctx, h)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, bucket.has(b.claimKey(h)))
	assert.False(t, b.claims.held(h))
}
