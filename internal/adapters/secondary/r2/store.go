package r2

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"curumim-backend/internal/config"
	"curumim-backend/internal/core/domain"
	output "curumim-backend/internal/core/ports/output"
)

// R2 accepts any region name; "auto" is the documented value.
const region = "auto"

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type audioStore struct {
	client     putObjectAPI
	bucket     string
	publicBase string
	enabled    bool
}

// NewAudioStore creates an AudioStore backed by Cloudflare R2. With an
// incomplete configuration it returns a disabled store whose Put fails with
// domain.ErrStorageUnavailable.
func NewAudioStore(ctx context.Context, cfg *config.R2Config) (output.AudioStore, error) {
	if !cfg.Enabled() {
		return &audioStore{enabled: false}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint())
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return newAudioStore(client, cfg.Bucket, cfg.PublicBase()), nil
}

func newAudioStore(client putObjectAPI, bucket, publicBase string) *audioStore {
	return &audioStore{
		client:     client,
		bucket:     bucket,
		publicBase: publicBase,
		enabled:    true,
	}
}

func (s *audioStore) Available() bool {
	return s.enabled
}

func (s *audioStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if !s.enabled {
		return "", domain.ErrStorageUnavailable
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", domain.ErrStorageUpload, key, err)
	}

	url := s.publicBase + "/" + key
	log.WithFields(log.Fields{
		"bucket": s.bucket,
		"key":    key,
		"url":    url,
	}).Info("audio uploaded to r2")

	return url, nil
}
