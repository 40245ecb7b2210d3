package minio

import (
	"context"
	"net/url"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/minio/minio-go/v7"
)

// Signer подписывает ссылки на скачивание из MinIO.
// Клиент должен быть создан с явным регионом, иначе подпись требует запроса к серверу.
type Signer struct {
	client     *minio.Client
	bucketName string
}

func NewSigner(client *minio.Client, bucketName string) *Signer {
	return &Signer{
		client:     client,
		bucketName: bucketName,
	}
}

// PresignGet возвращает временную ссылку с заголовками ответа для принудительного скачивания.
func (s *Signer) PresignGet(ctx context.Context, req *usecase.PresignReq) (string, error) {
	const op = "minio.Signer.PresignGet"

	params := make(url.Values)
	params.Set("response-content-disposition", usecase.AttachmentDisposition(req.FileName))
	params.Set("response-content-type", req.ContentType)

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, req.Key, req.Expires, params)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return u.String(), nil
}
