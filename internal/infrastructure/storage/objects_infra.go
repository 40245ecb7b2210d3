package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/infrastructure"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// ObjectsInfrastructure управляет загрузкой и очисткой объектов в бакете.
type ObjectsInfrastructure struct {
	objectRepo  usecase.ObjectRepository
	bucketName  string
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	uploadLimit int
	backoffBase time.Duration
}

func NewObjectsInfrastructure(
	objectRepo usecase.ObjectRepository,
	bucketName string,
	uploadLimit int,
	logger logger.Logger,
	shutdownCtx context.Context,
) *ObjectsInfrastructure {
	if uploadLimit <= 0 {
		uploadLimit = 1
	}

	return &ObjectsInfrastructure{
		objectRepo:  objectRepo,
		bucketName:  bucketName,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		uploadLimit: uploadLimit,
		backoffBase: time.Second,
	}
}

// UploadObjects загружает объекты параллельно с ограничением одновременных операций.
// В случае ошибки отменяет остальные загрузки и запускает очистку уже загруженных объектов.
func (o *ObjectsInfrastructure) UploadObjects(ctx context.Context, req *usecase.UploadObjectsReq) (*usecase.UploadObjectsRes, error) {
	const op = "ObjectsInfrastructure.UploadObjects"
	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyCh := make(chan string, len(req.Objects))
	errCh := make(chan error, len(req.Objects))
	sem := make(chan struct{}, o.uploadLimit)

	var uploadWg sync.WaitGroup
	for _, obj := range req.Objects {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			contentType := infrastructure.ObjectContentType(obj.File.MimeType, obj.File.Name)
			object := domain.NewObject(o.bucketName, obj.Key, obj.File.Content, obj.File.Size, contentType)

			key, err := o.objectRepo.Upload(ctx, object)
			if err != nil {
				errCh <- fmt.Errorf("upload %s failed: %w", obj.Key, err)
				return
			}

			keyCh <- key
		}()
	}

	go func() {
		uploadWg.Wait()
		close(errCh)
		close(keyCh)
	}()

	keys := make([]string, 0, len(req.Objects))
	ok := false
	defer func() {
		if !ok {
			// дочитываем ключи, загруженные параллельно с ошибкой
			for key := range keyCh {
				keys = append(keys, key)
			}
			o.CleanupObjects(keys)
		}
	}()

	for completed := 0; completed < len(req.Objects); {
		select {
		case key, ok := <-keyCh:
			if ok {
				keys = append(keys, key)
				completed++
			}
		case err, ok := <-errCh:
			if ok {
				cancel()
				return nil, e.Wrap(op, err)
			}
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	ok = true
	return usecase.NewUploadObjectsRes(keys), nil
}

// CleanupObjects запускает фоновую очистку указанных ключей.
func (o *ObjectsInfrastructure) CleanupObjects(keys []string) {
	if len(keys) == 0 {
		return
	}
	o.wg.Add(1)
	go o.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter.
func (o *ObjectsInfrastructure) cleanupUploadedKeys(keys []string) {
	defer o.wg.Done()
	const op = "ObjectsInfrastructure.cleanupUploadedKeys"
	o.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(o.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := o.objectRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				o.logger.Errorf(err, "%s: giving up on key %s", op, key)
				break
			}

			if err := jitter.Sleep(ctx, jitter.ExponentialBackoff(o.backoffBase, cleanupTimeout, attempt, jitter.DefaultJitter)); err != nil {
				o.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (o *ObjectsInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("object cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
