package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"yatube/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Storage interface {
	UploadImage(ctx context.Context, postID string, upload *Upload) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

// Upload is an image attached to a post form.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %s: %w", cfg.BucketName, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета %s: %w", cfg.BucketName, err)
		}
		log.Printf("Создан бакет %s", cfg.BucketName)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// ObjectName lays images out as posts/<post id>/<random id><ext>.
func ObjectName(postID, fileName string) string {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	return fmt.Sprintf("posts/%s/%s%s", postID, uuid.New().String(), fileExt)
}

func ObjectURL(cfg config.MinIO, objectName string) string {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, cfg.Endpoint, cfg.BucketName, objectName)
}

func contentTypeFor(upload *Upload) string {
	if upload.ContentType != "" {
		return upload.ContentType
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(upload.FileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

func (m *MinIOClient) UploadImage(ctx context.Context, postID string, upload *Upload) (string, string, error) {
	objectName := ObjectName(postID, upload.FileName)

	_, err := m.client.PutObject(ctx, m.config.BucketName, objectName, upload.Reader, upload.Size,
		minio.PutObjectOptions{
			ContentType: contentTypeFor(upload),
			UserMetadata: map[string]string{
				"original-filename": upload.FileName,
				"post-id":           postID,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return objectName, ObjectURL(m.config, objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
