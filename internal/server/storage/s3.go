package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/config"
)

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignPutAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements ObjectStore on aws-sdk-go-v2. It works against AWS and
// MinIO alike.
type S3Store struct {
	client    putObjectAPI
	presigner presignPutAPI
	logger    logging.Logger
	now       func() time.Time
}

// NewS3Store builds the S3 client from cfg: static credentials, region, an
// optional custom endpoint and path-style addressing. Requests are not
// retried and checksums are only computed where the API demands them.
func NewS3Store(ctx context.Context, cfg *config.Config, l logging.Logger) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
		o.RetryMaxAttempts = 1
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return newS3Store(client, s3.NewPresignClient(client), l), nil
}

func newS3Store(client putObjectAPI, presigner presignPutAPI, l logging.Logger) *S3Store {
	return &S3Store{
		client:    client,
		presigner: presigner,
		logger:    l.With("module", "s3_store"),
		now:       time.Now,
	}
}

func (s *S3Store) PutObject(ctx context.Context, obj Object) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   stringPtr(obj.ContentType),
	})
	if err != nil {
		serr := newError("put", obj.Bucket, obj.Key, err)
		s.logger.Error(ctx, "put object failed", "bucket", obj.Bucket, "key", obj.Key,
			"status", serr.StatusCode, "code", serr.Code, "error", err)
		return serr
	}

	s.logger.Debug(ctx, "object stored", "bucket", obj.Bucket, "key", obj.Key, "bytes", len(obj.Body))
	return nil
}

func (s *S3Store) PresignPut(ctx context.Context, req PresignRequest) (*PresignedUpload, error) {
	issued := s.now()

	signed, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(req.Bucket),
		Key:         aws.String(req.Key),
		ContentType: stringPtr(req.ContentType),
	}, s3.WithPresignExpires(req.Expires))
	if err != nil {
		s.logger.Error(ctx, "presign failed", "bucket", req.Bucket, "key", req.Key, "error", err)
		return nil, newError("presign", req.Bucket, req.Key, err)
	}

	return &PresignedUpload{
		URL:       signed.URL,
		Method:    signed.Method,
		Headers:   signed.SignedHeader,
		ExpiresAt: issued.Add(req.Expires),
	}, nil
}
