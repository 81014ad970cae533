package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	ProductImageFolder = "products"
	SnapshotFolder     = "snapshots"

	presignExpiry = 15 * time.Minute
)

var ErrUnsupportedContentType = errors.New("content type is not an accepted image type")

// imageExtensions maps accepted upload content types to their file extension
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type S3Storage struct {
	client   *s3.Client
	bucket   string
	baseURL  string
	endpoint string
}

type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	FileURL   string    `json:"fileUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// Default credential chain: environment, shared config, instance role
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

// ImageExtension returns the extension for an accepted image content type
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// PublicURL is where a stored object is served from
func (s *S3Storage) PublicURL(key string) string {
	switch {
	case s.baseURL != "":
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}
}

// PresignImageUpload returns a PUT URL for a product image under a random key
func (s *S3Storage) PresignImageUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		return nil, ErrUnsupportedContentType
	}
	if ext == ".jpg" && strings.EqualFold(filepath.Ext(filename), ".jpeg") {
		ext = ".jpeg"
	}
	key := fmt.Sprintf("%s/%s%s", ProductImageFolder, uuid.NewString(), ext)

	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	logger.Debug("Presigned image upload", map[string]interface{}{
		"key": key,
	})
	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.PublicURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// PutObject uploads data under key and returns its public URL
func (s *S3Storage) PutObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		logger.Error("Failed to upload object", err, map[string]interface{}{
			"key":    key,
			"bucket": s.bucket,
		})
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Info("Object uploaded", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})
	return s.PublicURL(key), nil
}
