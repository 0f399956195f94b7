// Package storage wraps the S3 object store used for property images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/NarakCODE/real-estate-management/internal/config"
)

// PresignedUpload is what clients need to upload an image directly to the
// bucket.
type PresignedUpload struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Uploader issues presigned upload URLs for property images.
type Uploader interface {
	PresignPut(ctx context.Context, propertyID, filename, contentType string) (*PresignedUpload, error)
}

// ObjectStore extends Uploader with the direct get/put the background image
// processor needs.
type ObjectStore interface {
	Uploader
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PublicURL(key string) string
}

type s3Store struct {
	cfg           *config.Config
	client        *s3.Client
	presignClient *s3.PresignClient
}

// NewS3Store creates an ObjectStore backed by the configured S3 bucket.
func NewS3Store(cfg *config.Config) (ObjectStore, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &s3Store{
		cfg:           cfg,
		client:        client,
		presignClient: s3.NewPresignClient(client),
	}, nil
}

// sanitizeFilename strips directory components and spaces so user-supplied
// names cannot escape the upload prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ReplaceAll(name, " ", "_")
}

func (s *s3Store) PresignPut(ctx context.Context, propertyID, filename, contentType string) (*PresignedUpload, error) {
	key := fmt.Sprintf("properties/%s/%s_%s", propertyID, uuid.NewString(), sanitizeFilename(filename))
	expiration := 15 * time.Minute

	presigned, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return nil, fmt.Errorf("failed to presign PUT for key %s: %w", key, err)
	}

	return &PresignedUpload{
		URL:       presigned.URL,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: time.Now().Add(expiration),
	}, nil
}

func (s *s3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return out.Body, nil
}

func (s *s3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL resolves a key to the address clients fetch it from, preferring
// the configured CDN base.
func (s *s3Store) PublicURL(key string) string {
	if s.cfg.ImageBaseURL != "" {
		return strings.TrimSuffix(s.cfg.ImageBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AwsS3Bucket, s.cfg.AwsRegion, key)
}
