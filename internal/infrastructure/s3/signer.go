package s3

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Signer подписывает ссылки на скачивание из AWS S3.
type Signer struct {
	client     *s3.PresignClient
	bucketName string
}

func NewSigner(client *s3.Client, bucketName string) *Signer {
	return &Signer{
		client:     s3.NewPresignClient(client),
		bucketName: bucketName,
	}
}

// PresignGet возвращает временную ссылку с заголовками ответа для принудительного скачивания.
func (s *Signer) PresignGet(ctx context.Context, req *usecase.PresignReq) (string, error) {
	const op = "s3.Signer.PresignGet"

	out, err := s.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucketName),
		Key:                        aws.String(req.Key),
		ResponseContentDisposition: aws.String(usecase.AttachmentDisposition(req.FileName)),
		ResponseContentType:        aws.String(req.ContentType),
	}, s3.WithPresignExpires(req.Expires))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return out.URL, nil
}
