package blobstore

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	del    *s3.DeleteObjectInput
	putErr error
	delErr error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.del = in
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	api := &fakeObjects{}
	s := newS3Store(api, "notes", "http://minio:9000/")

	url, err := s.Put(context.Background(), "notes/2024/06/01/k.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "http://minio:9000/notes/notes/2024/06/01/k.pdf", url)
	assert.Equal(t, "notes", aws.ToString(api.put.Bucket))
	assert.Equal(t, "notes/2024/06/01/k.pdf", aws.ToString(api.put.Key))
	assert.Equal(t, int64(4), aws.ToInt64(api.put.ContentLength))
	assert.Equal(t, "application/pdf", aws.ToString(api.put.ContentType))
	assert.Equal(t, "%PDF", api.body)
}

func TestS3Store_PutUnknownSize(t *testing.T) {
	api := &fakeObjects{}
	s := newS3Store(api, "b", "http://h")

	_, err := s.Put(context.Background(), "k", strings.NewReader("x"), 0, "")
	require.NoError(t, err)
	assert.Nil(t, api.put.ContentLength)
	assert.Nil(t, api.put.ContentType)
}

func TestS3Store_PutError(t *testing.T) {
	s := newS3Store(&fakeObjects{putErr: errors.New("bucket missing")}, "b", "http://h")

	_, err := s.Put(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket missing")
}

func TestS3Store_Delete(t *testing.T) {
	api := &fakeObjects{}
	s := newS3Store(api, "b", "http://h")

	require.NoError(t, s.Delete(context.Background(), "k"))
	assert.Equal(t, "k", aws.ToString(api.del.Key))

	api.delErr = errors.New("denied")
	assert.ErrorContains(t, s.Delete(context.Background(), "k"), "denied")
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultConfig
	loadDefaultConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	defer func() { loadDefaultConfig = orig }()

	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1", Bucket: "b"})
	assert.ErrorContains(t, err, "no config")
}

func TestNewS3Store_Success(t *testing.T) {
	orig := loadDefaultConfig
	loadDefaultConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	defer func() { loadDefaultConfig = orig }()

	s, err := NewS3Store(context.Background(), S3Options{
		Region: "us-east-1", Bucket: "b", BaseEndpoint: "http://minio:9000", PublicURL: "http://cdn",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/b/x", s.URL("x"))
}

func TestNewKey(t *testing.T) {
	now := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)

	k1 := NewKey(now, ".PDF")
	k2 := NewKey(now, ".PDF")

	re := regexp.MustCompile(`^notes/2024/02/03/[0-9a-f-]{36}\.pdf$`)
	assert.Regexp(t, re, k1)
	assert.NotEqual(t, k1, k2)
	assert.Regexp(t, `^notes/2024/02/03/[0-9a-f-]{36}$`, NewKey(now, ""))
}
