package usecase

import (
	"context"
	"io"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListActive(ctx context.Context, featuredOnly bool) ([]domain.Product, error)
}

type ProductFileRepository interface {
	Create(ctx context.Context, file *domain.ProductFile) (*domain.ProductFile, error)
	ReserveID(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductFile, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductFile, error)
}

type PurchaseRepository interface {
	HasPurchased(ctx context.Context, userID string, productID int64) (bool, error)
}

type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
}

// OutboxWriter — часть outbox-репозитория, нужная бизнес-логике.
type OutboxWriter interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
}

type OutboxRepository interface {
	OutboxWriter
	GetAndMarkAsProcessing(ctx context.Context, limit int, staleAfter time.Duration) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type ObjectRepository interface {
	Upload(ctx context.Context, object *domain.Object) (string, error)
	Delete(ctx context.Context, key string) error
}

type LocalFileRepository interface {
	Save(ctx context.Context, key string, content io.Reader) (int64, error)
	Open(ctx context.Context, key string) (*LocalFile, error)
	Remove(ctx context.Context, key string) error
}

// CacheRepository кэширует карточки товаров. Промах — (nil, nil).
type CacheRepository interface {
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, slug string) error
}

// TxManager выполняет fn в одной транзакции БД.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
