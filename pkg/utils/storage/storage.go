package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Object storage for occurrence photos and assembly minutes, backed by
// Cloudflare R2 through the S3 API.

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func cdnBase() string {
	if base := os.Getenv("CDN_BASE_URL"); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return "https://cdn.condofacil.app"
}

type UploadConfig struct {
	CondoSlug   string
	Kind        string // "ocorrencias", "atas", "avatares"
	Filename    string
	Body        *bytes.Buffer
	ContentType string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

// UploadFile stores the buffer under condos/<slug>/<kind>/<unique><ext> and
// returns the public CDN URL.
func UploadFile(cfg UploadConfig) (UploadResult, error) {
	safeSlug := slug.Make(cfg.CondoSlug)
	safeKind := slug.Make(cfg.Kind)

	ext := filepath.Ext(cfg.Filename)
	uniqueID := uuid.New().String()
	objectKey := filepath.Join("condos", safeSlug, safeKind, uniqueID+ext)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(cfg.Body.Bytes()),
		ContentType: aws.String(cfg.ContentType),
	}

	if _, err = client.PutObject(context.TODO(), input); err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:      fmt.Sprintf("%s/%s", cdnBase(), objectKey),
		ObjectID: uniqueID,
	}, nil
}

// DeleteFile removes an object given its public URL.
func DeleteFile(fullURL string) error {
	objectKey := strings.TrimPrefix(fullURL, cdnBase()+"/")

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	if _, err = client.DeleteObject(context.TODO(), input); err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}
