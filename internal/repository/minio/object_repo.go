package minio

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ObjectRepo реализует репозиторий объектов поверх MinIO.
type ObjectRepo struct {
	mc     *minio.Client
	bucket string
}

func NewObjectRepo(mc *minio.Client, bucket string) *ObjectRepo {
	return &ObjectRepo{
		mc:     mc,
		bucket: bucket,
	}
}

// Upload загружает объект и возвращает его ключ.
func (o *ObjectRepo) Upload(ctx context.Context, object *domain.Object) (string, error) {
	bucket := object.Bucket
	if bucket == "" {
		bucket = o.bucket
	}

	info, err := o.mc.PutObject(ctx, bucket, object.ObjectKey, object.Body, object.Size, minio.PutObjectOptions{
		ContentType: object.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект по указанному ключу.
func (o *ObjectRepo) Delete(ctx context.Context, key string) error {
	if err := o.mc.RemoveObject(ctx, o.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
