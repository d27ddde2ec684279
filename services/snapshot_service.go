package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SnapshotService is the persistence boundary: whole-collection JSON
// snapshots stored under named slots, plus presigned URLs for check-in and
// message media. A missing slot means "empty", not an error.
type SnapshotService struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

func snapshotKey(slot string) string {
	return "snapshots/" + slot + ".json"
}

// SaveSnapshot marshals value and writes it to the slot, replacing any
// previous snapshot.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, slot string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot '%s': %w", slot, err)
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(snapshotKey(slot)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Printf("❌ Failed to save snapshot '%s': %v", slot, err)
		return fmt.Errorf("failed to save snapshot '%s': %w", slot, err)
	}
	return nil
}

// LoadSnapshot reads the slot into out. Returns false with a nil error when
// the slot has never been written.
func (s *SnapshotService) LoadSnapshot(ctx context.Context, slot string, out interface{}) (bool, error) {
	output, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(snapshotKey(slot)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load snapshot '%s': %w", slot, err)
	}
	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot '%s': %w", slot, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal snapshot '%s': %w", slot, err)
	}
	return true, nil
}

// GenerateUploadURL generates a presigned URL for uploading a media file
func (s *SnapshotService) GenerateUploadURL(fileName, fileType string) (string, string, error) {
	key := "media/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignPutObject(context.TODO(), params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a media file
func (s *SnapshotService) GenerateReadURL(key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignGetObject(context.TODO(), params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
