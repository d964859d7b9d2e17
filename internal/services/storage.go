package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
)

// LocalFilesRoute is where the local driver's files are served from.
const LocalFilesRoute = "/files"

// StorageService stores resume binaries and hands back a public URL.
type StorageService interface {
	SaveResume(ctx context.Context, originalName string, body io.Reader, size int64, contentType string) (string, error)
	EnsureReady(ctx context.Context) error
}

// NewStorageService picks the driver named in the configuration.
func NewStorageService(ctx context.Context, cfg *config.Config) (StorageService, error) {
	switch cfg.Storage.Driver {
	case config.StorageLocal, "":
		return NewLocalStorage(cfg.Storage.UploadPath, cfg.Storage.Prefix, cfg.Server.PublicBaseURL+LocalFilesRoute), nil
	case config.StorageS3:
		return NewS3Storage(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// resumeKey builds a randomized object key that keeps the original extension.
func resumeKey(prefix, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

type localStorage struct {
	uploadPath string
	prefix     string
	baseURL    string
}

func NewLocalStorage(uploadPath, prefix, baseURL string) StorageService {
	return &localStorage{
		uploadPath: uploadPath,
		prefix:     prefix,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *localStorage) EnsureReady(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(s.uploadPath, s.prefix), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorage) SaveResume(ctx context.Context, originalName string, body io.Reader, size int64, contentType string) (string, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}

	key := resumeKey(s.prefix, originalName)

	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

type s3Storage struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
}

func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		publicBaseURL: s3PublicBaseURL(cfg),
	}, nil
}

// s3PublicBaseURL is the URL prefix under which objects of the bucket are
// publicly readable.
func s3PublicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *s3Storage) EnsureReady(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}

	return nil
}

func (s *s3Storage) SaveResume(ctx context.Context, originalName string, body io.Reader, size int64, contentType string) (string, error) {
	key := resumeKey(s.prefix, originalName)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}
