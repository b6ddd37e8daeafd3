package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// objectAPI is the part of *s3.Client the cover store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Store keeps covers in a bucket under the uploads/ prefix and streams
// them back through /uploads/.
type s3Store struct {
	client objectAPI
	bucket string
	log    *logrus.Logger
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

func newS3Store(ctx context.Context, cfg S3Config, log *logrus.Logger) (*s3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{client: client, bucket: cfg.Bucket, log: log}, nil
}

func (s *s3Store) Save(ctx context.Context, name string, f multipart.File, hdr *multipart.FileHeader) (string, error) {
	key := path.Join(defaultUploadDir, name+"."+uploadExtension(hdr.Filename))

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(hdr.Size),
	}
	if ct := hdr.Header.Get("Content-Type"); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return key, nil
}

func (s *s3Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/uploads/")
		if name == "" || strings.Contains(name, "/") {
			http.NotFound(w, r)
			return
		}
		key := path.Join(defaultUploadDir, name)

		out, err := s.client.GetObject(r.Context(), &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				http.NotFound(w, r)
				return
			}
			s.log.WithError(err).WithField("key", key).Error("fetching cover")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		defer out.Body.Close()

		if out.ContentType != nil {
			w.Header().Set("Content-Type", *out.ContentType)
		}
		if _, err := io.Copy(w, out.Body); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("streaming cover")
		}
	})
}
