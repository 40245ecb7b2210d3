package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	maxTitleLength  = 120
	maxSlugLength   = 45
	maxSlugAttempts = 5
	slugSuffixLen   = 4
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	objects     ObjectsInfra
	outbox      OutboxWriter
	txManager   TxManager
	logger      logger.Logger
	mediaDir    string
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	objects ObjectsInfra,
	outbox OutboxWriter,
	txManager TxManager,
	logger logger.Logger,
	mediaDir string,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		objects:     objects,
		outbox:      outbox,
		txManager:   txManager,
		logger:      logger,
		mediaDir:    mediaDir,
	}
}

// CreateProduct создаёт товар с уникальным slug, загружает изображение и пишет событие product.created.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	productSlug, err := p.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(strings.TrimSpace(req.Title), req.Description, req.Price, req.Featured, req.Active, req.IsDigital)
	product.Slug = productSlug

	// Изображение загружается до транзакции, при ошибке удаляется фоном
	var uploadedKeys []string
	if req.Image != nil {
		key := path.Join(p.mediaDir, ProductImagePath(req.Image.Name))
		res, err := p.objects.UploadObjects(ctx, NewUploadObjectsReq(ObjectUpload{Key: key, File: *req.Image}))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploadedKeys = res.Keys
		product.ImagePath = &key
	}

	var created *domain.Product
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		event, err := NewOutboxEvent(EventProductCreated, created.ID, ProductCreatedPayload{
			ProductID: created.ID,
			Slug:      created.Slug,
			Title:     created.Title,
			Price:     created.Price,
			IsDigital: created.IsDigital,
		})
		if err != nil {
			return err
		}

		_, err = p.outbox.Create(ctx, event)
		return err
	})
	if err != nil {
		if len(uploadedKeys) > 0 {
			p.logger.Warnf("Cleaning up orphaned product image after transaction failure. slug: %s, error: %v", productSlug, e.Wrap(op, err))
			p.objects.CleanupObjects(uploadedKeys)
		}
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("Product created. id: %d, slug: %s", created.ID, created.Slug)

	return created, nil
}

// GetProduct возвращает активный товар по slug, сначала заглядывая в кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, productSlug string) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, productSlug)
	if err != nil {
		p.logger.Warnf("Failed to read product from cache: %v", e.Wrap(op, err))
	} else if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !product.Active {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// ListProducts возвращает активные товары.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.ListActive(ctx, req.FeaturedOnly)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// uniqueSlug строит slug из названия и при коллизии добавляет случайный суффикс.
func (p *ProductUseCase) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if len(base) > maxSlugLength {
		base = strings.Trim(base[:maxSlugLength], "-")
	}
	if base == "" {
		base = "product"
	}

	candidate := base
	for range maxSlugAttempts {
		exists, err := p.productRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%s", base, randomSuffix(slugSuffixLen))
	}

	return "", e.ErrSlugConflict
}

// validateProduct проверяет корректность входных данных запроса на создание товара.
func (p *ProductUseCase) validateProduct(req *CreateProductReq) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return e.ErrTitleRequired
	}

	if utf8.RuneCountInString(title) > maxTitleLength {
		return e.ErrTitleTooLong
	}

	if req.Price < 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}

// ProductImagePath формирует ключ изображения товара: products/{uuid}/{uuid}{ext}.
func ProductImagePath(filename string) string {
	id := uuid.NewString()
	return fmt.Sprintf("products/%s/%s%s", id, id, path.Ext(filename))
}

// randomSuffix возвращает n случайных символов [0-9a-f].
func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
