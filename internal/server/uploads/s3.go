package uploads

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/bookstore/internal/netx"
)

const presignExpires = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		_, err := c.DeleteObject(ctx, in)
		return err
	}
	uploadToPresignedURL = netx.UploadToS3PresignedURL
)

// S3Config addresses an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
	// Prefix is prepended to every key, e.g. "avatars/".
	Prefix string
}

// S3Storage uploads through presigned PUT URLs and hands out presigned GET
// URLs for display.
type S3Storage struct {
	cfg     S3Config
	client  *s3.Client
	presign *s3.PresignClient
}

func NewS3Storage(ctx context.Context, c S3Config) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("uploads: aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{cfg: c, client: client, presign: s3.NewPresignClient(client)}, nil
}

func (s *S3Storage) objectKey(key string) string {
	return s.cfg.Prefix + key
}

func (s *S3Storage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if !validKey(key) {
		return errBadKey
	}

	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(s.objectKey(key)),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return fmt.Errorf("uploads: presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, req.URL, r, size, contentType); err != nil {
		return fmt.Errorf("uploads: put %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(ctx context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", errBadKey
	}

	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", fmt.Errorf("uploads: presign get: %w", err)
	}
	return req.URL, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return errBadKey
	}

	err := deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("uploads: delete %s: %w", key, err)
	}
	return nil
}
