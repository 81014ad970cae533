package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/cixi/storefront-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:          "us-east-1",
		Bucket:          "cixi-test",
		AccessKeyID:     "AKIDTEST",
		SecretAccessKey: "secret",
	}
}

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("IMAGE/PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = ImageExtension("application/pdf")
	assert.False(t, ok)
}

func TestPublicURL(t *testing.T) {
	s := NewS3Storage(context.Background(), testS3Config())
	assert.Equal(t, "https://cixi-test.s3.us-east-1.amazonaws.com/products/a.png", s.PublicURL("products/a.png"))

	cfg := testS3Config()
	cfg.BaseURL = "https://cdn.example.com/"
	s = NewS3Storage(context.Background(), cfg)
	assert.Equal(t, "https://cdn.example.com/products/a.png", s.PublicURL("products/a.png"))
}

func TestPresignImageUpload(t *testing.T) {
	s := NewS3Storage(context.Background(), testS3Config())

	upload, err := s.PresignImageUpload(context.Background(), "foto.JPEG", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.Key, ProductImageFolder+"/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".jpeg"))

	u, err := url.Parse(upload.UploadURL)
	require.NoError(t, err)
	assert.Contains(t, u.Host, "cixi-test")
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, s.PublicURL(upload.Key), upload.FileURL)

	_, err = s.PresignImageUpload(context.Background(), "doc.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestPutObject(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testS3Config()
	cfg.Endpoint = server.URL
	s := NewS3Storage(context.Background(), cfg)

	fileURL, err := s.PutObject(context.Background(), "snapshots/catalogo.xlsx", "application/octet-stream", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/cixi-test/snapshots/catalogo.xlsx", fileURL)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/cixi-test/snapshots/catalogo.xlsx", path)
}
