package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var s3Client *s3.Client

// S3Enabled reports whether photo archival is configured.
func S3Enabled() bool {
	return os.Getenv("S3_BUCKET") != ""
}

func InitS3() {
	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// S3Archiver keeps a copy of each recognized photo in the configured bucket.
type S3Archiver struct{}

func NewS3Archiver() *S3Archiver {
	return &S3Archiver{}
}

func (a *S3Archiver) ArchiveImage(ctx context.Context, data []byte) (string, error) {
	contentType := http.DetectContentType(data)

	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	default:
		ext = ".img"
	}

	key := fmt.Sprintf("food-photos/%s%s", uuid.NewString(), ext)

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if cfURL := os.Getenv("CLOUDFRONT_URL"); cfURL != "" {
		return fmt.Sprintf("%s/%s", cfURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", os.Getenv("S3_BUCKET"), key), nil
}
