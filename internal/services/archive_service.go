package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ImportArchiver keeps a copy of every CSV file the API accepted
type ImportArchiver interface {
	Archive(ctx context.Context, kind, filename string, data []byte) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioArchiver struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinioArchiver(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ImportArchiver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchiver{client: client, bucket: bucket, now: time.Now}, nil
}

// archiveObjectName lays objects out as kind/yyyy/mm/dd/<uuid>-<file>
func archiveObjectName(kind, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s-%s", kind, at.UTC().Format("2006/01/02"), uuid.NewString(), path.Base(filename))
}

func (m *minioArchiver) Archive(ctx context.Context, kind, filename string, data []byte) (string, error) {
	objectName := archiveObjectName(kind, filename, m.now())
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (m *minioArchiver) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioArchiver) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}

// archiveImport stores data when an archiver is configured. Failures are
// logged only; the import itself already succeeded.
func archiveImport(ctx context.Context, archiver ImportArchiver, logger logrus.FieldLogger, kind, filename string, data []byte) {
	if archiver == nil {
		return
	}
	objectName, err := archiver.Archive(context.WithoutCancel(ctx), kind, filename, data)
	if err != nil {
		logger.WithError(err).WithField("kind", kind).Warn("failed to archive import file")
		return
	}
	logger.WithFields(logrus.Fields{"kind": kind, "object": objectName}).Info("import file archived")
}
