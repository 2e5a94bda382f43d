package store

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shaiso/Stackmate/internal/config"
	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/stack"
)

// ArchiveStore сохраняет маркеры прогонов в MinIO.
//
// После успешного демонстрационного прогона в бакет загружается
// объект "<timestamp>.txt" с временем запуска.
type ArchiveStore struct {
	client *minio.Client
	bucket string
}

// NewArchiveStore создаёт клиента MinIO.
// Само соединение ленивое; доступность проверяет Probe.
func NewArchiveStore(cfg config.MinIOConfig) (*ArchiveStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("new minio client: %w", err)
	}

	return &ArchiveStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket создаёт бакет, если его нет.
func (s *ArchiveStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ArchiveLastRun загружает маркер прогона.
// Имя объекта — timestamp запуска в формате 20060102_150405.
func (s *ArchiveStore) ArchiveLastRun(ctx context.Context, startedAt time.Time) (string, error) {
	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}

	name := startedAt.Format("20060102_150405") + ".txt"
	body := []byte(startedAt.Format(time.RFC3339) + "\n")

	_, err := s.client.PutObject(ctx, s.bucket, name,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/plain"},
	)
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	return name, nil
}

// Probe выполняет health-проверку (запрос существования бакета).
func (s *ArchiveStore) Probe(ctx context.Context) domain.ProbeResult {
	start := time.Now()

	_, err := s.client.BucketExists(ctx, s.bucket)

	result := domain.ProbeResult{
		Name:      stack.ServiceMinIO,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
