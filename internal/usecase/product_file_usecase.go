package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const maxFileNameLength = 120

// ProductFileUseCase управляет защищёнными файлами цифровых товаров.
type ProductFileUseCase struct {
	productRepo  ProductRepository
	fileRepo     ProductFileRepository
	objects      ObjectsInfra
	localFiles   LocalFileRepository
	outbox       OutboxWriter
	txManager    TxManager
	logger       logger.Logger
	protectedDir string
}

func NewProductFileUC(
	productRepo ProductRepository,
	fileRepo ProductFileRepository,
	objects ObjectsInfra,
	localFiles LocalFileRepository,
	outbox OutboxWriter,
	txManager TxManager,
	logger logger.Logger,
	protectedDir string,
) *ProductFileUseCase {
	return &ProductFileUseCase{
		productRepo:  productRepo,
		fileRepo:     fileRepo,
		objects:      objects,
		localFiles:   localFiles,
		outbox:       outbox,
		txManager:    txManager,
		logger:       logger,
		protectedDir: protectedDir,
	}
}

// AddFile сохраняет файл в выбранное хранилище и прикрепляет его к товару.
func (p *ProductFileUseCase) AddFile(ctx context.Context, req *AddProductFileReq) (*domain.ProductFile, error) {
	const op = "ProductFileUseCase.AddFile"

	if err := p.validateFile(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// id резервируется заранее: он входит в путь и не должен совпасть у параллельных загрузок
	fileID, err := p.fileRepo.ReserveID(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	filePath := ProductFilePath(product.Slug, fileID, req.File.Name)

	// Файл кладётся в хранилище до транзакции
	if err := p.store(ctx, req.Storage, filePath, req.File); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.ProductFile
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		file := domain.NewProductFile(product.ID, req.Name, filePath, req.Storage, req.Free, req.UserRequired)
		file.ID = fileID

		var err error
		created, err = p.fileRepo.Create(ctx, file)
		if err != nil {
			return err
		}

		event, err := NewOutboxEvent(EventProductFileAdded, product.ID, ProductFileAddedPayload{
			ProductID: product.ID,
			FileID:    created.ID,
			Storage:   string(created.Storage),
			Free:      created.Free,
		})
		if err != nil {
			return err
		}

		_, err = p.outbox.Create(ctx, event)
		return err
	})
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned product file after transaction failure. path: %s, error: %v", filePath, e.Wrap(op, err))
		p.discard(req.Storage, filePath)
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("Product file added. product: %s, file_id: %d, storage: %s", product.Slug, created.ID, created.Storage)

	return created, nil
}

// ListDownloads возвращает файлы товара со ссылками на скачивание.
func (p *ProductFileUseCase) ListDownloads(ctx context.Context, productSlug string) ([]DownloadInfo, error) {
	const op = "ProductFileUseCase.ListDownloads"

	product, err := p.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	files, err := p.fileRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res := make([]DownloadInfo, 0, len(files))
	for i := range files {
		res = append(res, NewDownloadInfo(&files[i], product.Slug))
	}

	return res, nil
}

// store записывает содержимое файла в локальное хранилище или в бакет.
func (p *ProductFileUseCase) store(ctx context.Context, storage domain.StorageKind, filePath string, file *UploadFile) error {
	switch storage {
	case domain.StorageLocal:
		_, err := p.localFiles.Save(ctx, filePath, file.Content)
		return err
	case domain.StorageS3:
		_, err := p.objects.UploadObjects(ctx, NewUploadObjectsReq(ObjectUpload{
			Key:  ProtectedKey(p.protectedDir, filePath),
			File: *file,
		}))
		return err
	default:
		return e.ErrInvalidStorage
	}
}

// discard удаляет файл, для которого не удалось создать запись в БД.
func (p *ProductFileUseCase) discard(storage domain.StorageKind, filePath string) {
	if storage == domain.StorageS3 {
		p.objects.CleanupObjects([]string{ProtectedKey(p.protectedDir, filePath)})
		return
	}

	if err := p.localFiles.Remove(context.Background(), filePath); err != nil {
		p.logger.Warnf("Failed to remove local file %s: %v", filePath, err)
	}
}

// validateFile проверяет запрос на добавление файла.
func (p *ProductFileUseCase) validateFile(req *AddProductFileReq) error {
	if req.File == nil || req.File.Content == nil || req.File.Size == 0 {
		return e.ErrNoFile
	}

	if req.Name != nil && utf8.RuneCountInString(*req.Name) > maxFileNameLength {
		return e.ErrNameTooLong
	}

	if req.Storage != domain.StorageS3 && req.Storage != domain.StorageLocal {
		return e.ErrInvalidStorage
	}

	return nil
}

// ProductFilePath формирует путь файла товара: product/{slug}/{id}{filename}.
func ProductFilePath(productSlug string, id int64, filename string) string {
	return fmt.Sprintf("product/%s/%d%s", productSlug, id, path.Base(strings.ReplaceAll(filename, "\\", "/")))
}

// ProtectedKey добавляет к пути файла префикс каталога защищённых файлов.
func ProtectedKey(protectedDir, filePath string) string {
	dir := strings.Trim(protectedDir, "/")
	if dir == "" {
		dir = defaultProtectedDir
	}
	return dir + "/" + strings.TrimPrefix(filePath, "/")
}
