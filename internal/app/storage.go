package app

import (
	"context"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	s3Infra "github.com/DRSN-tech/storefront/internal/infrastructure/s3"
	minioRepo "github.com/DRSN-tech/storefront/internal/repository/minio"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/s3"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

// objectStorage — репозиторий объектов и подписчик ссылок выбранного провайдера.
type objectStorage struct {
	objects usecase.ObjectRepository
	signer  usecase.URLSigner
}

// newObjectStorage собирает хранилище по STORAGE_PROVIDER. Без ключей доступа
// сервис стартует, а ссылки на скачивание ведут на заглушку.
func newObjectStorage(ctx context.Context, cfg *config.StorageCfg, log logger.Logger) (*objectStorage, error) {
	if !cfg.IsConfigured() {
		log.Warnf("object storage is not configured: download links will point to the fallback page")
	}

	switch cfg.Provider {
	case config.ProviderAWS:
		client, err := clients.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return &objectStorage{
			objects: s3Repo.NewObjectRepo(client, cfg.BucketName),
			signer:  s3Infra.NewSigner(client, cfg.BucketName),
		}, nil
	default:
		client, err := clients.NewMinIOClient(cfg)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if cfg.IsConfigured() {
			bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := clients.EnsureBucket(bucketCtx, client, cfg.BucketName, cfg.Region); err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}
		}

		return &objectStorage{
			objects: minioRepo.NewObjectRepo(client, cfg.BucketName),
			signer:  minioInfra.NewSigner(client, cfg.BucketName),
		}, nil
	}
}
