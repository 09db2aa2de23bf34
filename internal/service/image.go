package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vladimir-spb/foodgram-backend/config"
)

// ImageService stores recipe images decoded from base64 payloads. When an S3
// bucket is configured uploads go there; otherwise files land under the
// local media root and are served as /media/.
type ImageService struct {
	s3Config  *config.S3Config
	mediaRoot string
	log       *zap.Logger
}

func NewImageService(s3Config *config.S3Config, mediaRoot string, log *zap.Logger) *ImageService {
	return &ImageService{
		s3Config:  s3Config,
		mediaRoot: mediaRoot,
		log:       log,
	}
}

// SaveRecipeImage decodes a data-URI (or bare base64) image payload, stores
// it, and returns the public URL. An empty payload returns an empty URL.
func (s *ImageService) SaveRecipeImage(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	data, ext, err := decodeImagePayload(payload)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("recipes/images/%s%s", uuid.New().String(), ext)

	if s.s3Config != nil {
		return s.uploadToS3(ctx, data, fileName, ext)
	}
	return s.saveLocal(data, fileName)
}

func (s *ImageService) uploadToS3(ctx context.Context, data []byte, fileName, ext string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeForExt(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.s3Config.BucketName, s.s3Config.Region, fileName)
	s.log.Info("uploaded recipe image", zap.String("key", fileName))
	return url, nil
}

func (s *ImageService) saveLocal(data []byte, fileName string) (string, error) {
	path := filepath.Join(s.mediaRoot, filepath.FromSlash(fileName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + fileName, nil
}

// decodeImagePayload accepts "data:image/png;base64,..." or a bare base64
// string (png assumed) and returns the raw bytes with a file extension.
func decodeImagePayload(payload string) ([]byte, string, error) {
	ext := ".png"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		encoded = rest
		switch {
		case strings.Contains(header, "image/jpeg"), strings.Contains(header, "image/jpg"):
			ext = ".jpg"
		case strings.Contains(header, "image/gif"):
			ext = ".gif"
		case strings.Contains(header, "image/png"):
			ext = ".png"
		default:
			return nil, "", fmt.Errorf("unsupported image type in %q", header)
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}
	return data, ext, nil
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".jpg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
