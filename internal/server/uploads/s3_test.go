package uploads

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3(t *testing.T, endpoint string) *S3Storage {
	t.Helper()
	s, err := NewS3Storage(context.Background(), S3Config{
		User:     "admin",
		Password: "secretpassword",
		Bucket:   "bookstore",
		Region:   "us-east-1",
		Endpoint: endpoint,
		Prefix:   "avatars/",
	})
	require.NoError(t, err)
	return s
}

func TestS3Storage_SaveUploadsThroughPresignedPut(t *testing.T) {
	var gotMethod, gotPath, gotCT, gotBody string
	var gotSigned bool

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotSigned = r.URL.Query().Get("X-Amz-Signature") != ""
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer ts.Close()

	s := newTestS3(t, ts.URL)
	require.NoError(t, s.Save(context.Background(), "k1_me.png", strings.NewReader("img"), 3, "image/png"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/bookstore/avatars/k1_me.png", gotPath)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, "img", gotBody)
	assert.True(t, gotSigned)
}

func TestS3Storage_URLIsPresignedGet(t *testing.T) {
	s := newTestS3(t, "http://127.0.0.1:9000")

	url, err := s.URL(context.Background(), "k1_me.png")
	require.NoError(t, err)
	assert.Contains(t, url, "http://127.0.0.1:9000/bookstore/avatars/k1_me.png?")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestS3Storage_Errors(t *testing.T) {
	s := newTestS3(t, "http://127.0.0.1:9000")
	ctx := context.Background()

	origPut, origGet, origDel, origUp := presignPutObject, presignGetObject, deleteObject, uploadToPresignedURL
	t.Cleanup(func() {
		presignPutObject, presignGetObject, deleteObject, uploadToPresignedURL = origPut, origGet, origDel, origUp
	})

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("no creds")
	}
	require.ErrorContains(t, s.Save(ctx, "k", strings.NewReader(""), 0, ""), "presign put")

	presignPutObject = origPut
	uploadToPresignedURL = func(context.Context, string, io.Reader, int64, string) error {
		return errors.New("upload failed: 403 Forbidden")
	}
	require.ErrorContains(t, s.Save(ctx, "k", strings.NewReader(""), 0, ""), "403")

	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("no creds")
	}
	_, err := s.URL(ctx, "k")
	require.ErrorContains(t, err, "presign get")

	var gotKey string
	deleteObject = func(_ *s3.Client, _ context.Context, in *s3.DeleteObjectInput) error {
		gotKey = *in.Key
		return errors.New("access denied")
	}
	require.ErrorContains(t, s.Delete(ctx, "k"), "access denied")
	assert.Equal(t, "avatars/k", gotKey)

	require.ErrorIs(t, s.Save(ctx, "../k", strings.NewReader(""), 0, ""), errBadKey)
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad profile")
	}

	_, err := NewS3Storage(context.Background(), S3Config{})
	require.ErrorContains(t, err, "bad profile")
}
