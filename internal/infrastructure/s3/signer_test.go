package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_PresignGet(t *testing.T) {
	client := s3.New(s3.Options{
		Region:      "eu-central-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIATEST", "secret", ""),
	})
	s := NewSigner(client, "halex-bucket")

	raw, err := s.PresignGet(context.Background(), usecase.NewPresignReq(
		"protected/product/go-book/3book.pdf", "Go Book.pdf", usecase.ForceDownloadContentType, 200*time.Second,
	))
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.True(t, strings.HasPrefix(u.Host, "halex-bucket.s3."), u.Host)
	assert.Equal(t, "/protected/product/go-book/3book.pdf", u.Path)
	assert.Equal(t, "200", q.Get("X-Amz-Expires"))
	assert.Equal(t, `attachment; filename="Go Book.pdf"`, q.Get("response-content-disposition"))
	assert.Equal(t, "application/force-download", q.Get("response-content-type"))
	assert.Contains(t, q.Get("X-Amz-Credential"), "/eu-central-1/s3/aws4_request")
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
}
