// Package media delegates profile-image storage to an S3-compatible
// service via presigned URLs. The portal never proxies image bytes.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for content types outside the image
// allow-list.
var ErrUnsupportedType = errors.New("unsupported image type")

// presignExpiry bounds how long an issued upload/view URL stays valid.
const presignExpiry = 15 * time.Minute

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Config holds the object-storage settings.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// Service issues presigned PUT/GET URLs for profile images.
type Service struct {
	bucket  string
	presign *s3.PresignClient
}

// NewService builds the S3 presign client. BaseEndpoint is optional and
// supports MinIO-style deployments.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{
		bucket:  cfg.Bucket,
		presign: s3.NewPresignClient(client),
	}, nil
}

// UploadURL issues a presigned PUT for a new avatar object and returns
// the storage key together with the URL.
func (s *Service) UploadURL(ctx context.Context, contentType string) (string, string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", "", ErrUnsupportedType
	}

	now := time.Now()
	key := fmt.Sprintf("avatars/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New(), ext)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return key, req.URL, nil
}

// ViewURL issues a presigned GET for an existing avatar key.
func (s *Service) ViewURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign view: %w", err)
	}
	return req.URL, nil
}
