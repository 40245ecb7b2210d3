package minio

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("AKIATEST", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return NewSigner(client, "halex-bucket")
}

func TestSigner_PresignGet(t *testing.T) {
	s := newTestSigner(t)

	raw, err := s.PresignGet(context.Background(), usecase.NewPresignReq(
		"protected/product/go-book/3book.pdf", "Go Book.pdf", usecase.ForceDownloadContentType, 200*time.Second,
	))
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/halex-bucket/protected/product/go-book/3book.pdf", u.Path)
	assert.Equal(t, "200", q.Get("X-Amz-Expires"))
	assert.Equal(t, `attachment; filename="Go Book.pdf"`, q.Get("response-content-disposition"))
	assert.Equal(t, "application/force-download", q.Get("response-content-type"))
	assert.Contains(t, q.Get("X-Amz-Credential"), "AKIATEST/")
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
}

func TestSigner_PresignGetRejectsBadExpiry(t *testing.T) {
	s := newTestSigner(t)

	_, err := s.PresignGet(context.Background(), usecase.NewPresignReq("k", "k", usecase.ForceDownloadContentType, 8*24*time.Hour))

	assert.Error(t, err)
}
