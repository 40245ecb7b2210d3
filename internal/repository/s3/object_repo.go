package s3

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jimlawless/whereami"
)

// ObjectRepo реализует репозиторий объектов поверх AWS S3.
type ObjectRepo struct {
	client *s3.Client
	bucket string
}

func NewObjectRepo(client *s3.Client, bucket string) *ObjectRepo {
	return &ObjectRepo{
		client: client,
		bucket: bucket,
	}
}

// Upload загружает объект и возвращает его ключ.
func (o *ObjectRepo) Upload(ctx context.Context, object *domain.Object) (string, error) {
	bucket := object.Bucket
	if bucket == "" {
		bucket = o.bucket
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(object.ObjectKey),
		Body:        object.Body,
		ContentType: aws.String(object.ContentType),
	}
	if object.Size >= 0 {
		input.ContentLength = aws.Int64(object.Size)
	}

	if _, err := o.client.PutObject(ctx, input); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return object.ObjectKey, nil
}

// Delete удаляет объект по указанному ключу.
func (o *ObjectRepo) Delete(ctx context.Context, key string) error {
	if _, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
