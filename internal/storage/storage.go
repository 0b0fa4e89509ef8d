package storage

import (
	"blogicum/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// LocalURLPrefix is where locally stored files are served from.
const LocalURLPrefix = "/media/"

// Storage persists post images and hands back the URL they are served from.
type Storage interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// New builds the storage backend selected in cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.UploadDir)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// LocalStorage keeps files in a directory on disk.
type LocalStorage struct {
	UploadDir string
}

// NewLocalStorage makes sure dir exists.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{UploadDir: dir}, nil
}

func (ls *LocalStorage) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	fullPath := filepath.Join(ls.UploadDir, filepath.Base(name))
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return LocalURLPrefix + filepath.Base(name), nil
}

func (ls *LocalStorage) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, LocalURLPrefix) {
		return nil
	}
	fullPath := filepath.Join(ls.UploadDir, path.Base(url))
	err := os.Remove(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// S3Storage keeps files in an S3-compatible bucket.
type S3Storage struct {
	Client     *minio.Client
	BucketName string
	PublicURL  string
}

// NewS3Storage connects to the bucket described by cfg and checks it exists.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	var creds *credentials.Credentials
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		// Fall back to IAM role credentials.
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		publicURL = fmt.Sprintf("%s://%s.%s", protocol, cfg.Bucket, endpoint)
	}

	return &S3Storage{
		Client:     client,
		BucketName: cfg.Bucket,
		PublicURL:  strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s3 *S3Storage) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s3.Client.PutObject(ctx, s3.BucketName, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s3.PublicURL + "/" + name, nil
}

func (s3 *S3Storage) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s3.PublicURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(url, s3.PublicURL+"/")
	return s3.Client.RemoveObject(ctx, s3.BucketName, key, minio.RemoveObjectOptions{})
}
