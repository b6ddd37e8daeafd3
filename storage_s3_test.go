package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body        string
	contentType string
}

type fakeS3 struct {
	objects map[string]fakeObject
	putErr  error
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]fakeObject{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = fakeObject{
		body:        string(b),
		contentType: aws.ToString(in.ContentType),
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(obj.body)),
		ContentType: aws.String(obj.contentType),
	}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestS3Store_SaveAndServe(t *testing.T) {
	fake := newFakeS3()
	store := &s3Store{client: fake, bucket: "covers", log: quietLogger()}

	req := parsedMultipart(t, testFile{field: "file", filename: "cover.webp", content: "webp bytes"})
	got, err := receiveCover(context.Background(), store, req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, strings.HasPrefix(*got, "uploads/"))
	assert.True(t, strings.HasSuffix(*got, ".webp"))

	obj, ok := fake.objects["covers/"+*got]
	require.True(t, ok, "object not uploaded under %s", *got)
	assert.Equal(t, "webp bytes", obj.body)
	assert.Equal(t, "application/octet-stream", obj.contentType)

	w := httptest.NewRecorder()
	store.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+*got, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "webp bytes", w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestS3Store_Handler_Errors(t *testing.T) {
	fake := newFakeS3()
	store := &s3Store{client: fake, bucket: "covers", log: quietLogger()}

	w := httptest.NewRecorder()
	store.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	store.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/a/b.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	fake.getErr = errors.New("bucket unreachable")
	w = httptest.NewRecorder()
	store.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/x.png", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestS3Store_SaveError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	store := &s3Store{client: fake, bucket: "covers", log: quietLogger()}

	req := parsedMultipart(t, testFile{field: "file", filename: "a.png", content: "a"})
	_, err := receiveCover(context.Background(), store, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Store(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var gotOpts int
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		gotOpts = len(optFns)
		return aws.Config{Region: "us-east-1"}, nil
	}

	store, err := newS3Store(context.Background(), S3Config{
		Bucket:    "covers",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "admin",
		SecretKey: "secretpassword",
	}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "covers", store.bucket)
	assert.Equal(t, 2, gotOpts, "region and static credentials")

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = newS3Store(context.Background(), S3Config{Bucket: "covers"}, quietLogger())
	assert.Error(t, err)
}
