package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const imageFolder = "product_images"

// S3ImageStore keeps images as objects in a bucket and returns their public URL.
type S3ImageStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3ImageStore(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3ImageStore {
	var cfg aws.Config
	var err error

	// Static credentials when configured, otherwise the default chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3ImageStore{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3ImageStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s", imageFolder, objectName(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.objectURL(key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, path string) error {
	if path == "" {
		return ErrEmptyImagePath
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.keyFromURL(path)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}

func (s *S3ImageStore) objectURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

func (s *S3ImageStore) keyFromURL(path string) string {
	if idx := strings.Index(path, imageFolder+"/"); idx >= 0 {
		return path[idx:]
	}
	return path
}
