package client

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// S3Config contains optional overrides for the S3 client. Empty values fall
// back to the standard AWS config and credential chain.
type S3Config struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
	// Endpoint overrides the S3 endpoint for S3-compatible providers.
	Endpoint     string `toml:"endpoint"`
	UsePathStyle bool   `toml:"usePathStyle"`
}

// ObjectGetter is the part of the S3 client that S3Source needs.
type ObjectGetter interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the index from an S3 object.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// NewS3Source creates a new S3 source using the default AWS configuration
// chain with optional overrides from S3Config.
func NewS3Source(ctx context.Context, cfg S3Config, bucket, key string) (*S3Source, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to load AWS config")
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Source{Client: c, Bucket: bucket, Key: key}, nil
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, ErrUnexpectedStatusCode{Code: 404, ErrMsg: apiErr.ErrorMessage()}
		}
		return nil, err
	}

	return out.Body, nil
}

func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}
