package usecase

import (
	"context"
	"io"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/stretchr/testify/mock"
)

type SpyProductRepo struct {
	mock.Mock
}

func (s *SpyProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := s.Called(ctx, product)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (s *SpyProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := s.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (s *SpyProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := s.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (s *SpyProductRepo) ListActive(ctx context.Context, featuredOnly bool) ([]domain.Product, error) {
	args := s.Called(ctx, featuredOnly)
	p, _ := args.Get(0).([]domain.Product)
	return p, args.Error(1)
}

type SpyProductFileRepo struct {
	mock.Mock
}

func (s *SpyProductFileRepo) Create(ctx context.Context, file *domain.ProductFile) (*domain.ProductFile, error) {
	args := s.Called(ctx, file)
	if fn, ok := args.Get(0).(func(context.Context, *domain.ProductFile) *domain.ProductFile); ok {
		return fn(ctx, file), args.Error(1)
	}
	f, _ := args.Get(0).(*domain.ProductFile)
	return f, args.Error(1)
}

func (s *SpyProductFileRepo) ReserveID(ctx context.Context) (int64, error) {
	args := s.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (s *SpyProductFileRepo) GetByID(ctx context.Context, id int64) (*domain.ProductFile, error) {
	args := s.Called(ctx, id)
	f, _ := args.Get(0).(*domain.ProductFile)
	return f, args.Error(1)
}

func (s *SpyProductFileRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductFile, error) {
	args := s.Called(ctx, productID)
	f, _ := args.Get(0).([]domain.ProductFile)
	return f, args.Error(1)
}

type SpyPurchaseRepo struct {
	mock.Mock
}

func (s *SpyPurchaseRepo) HasPurchased(ctx context.Context, userID string, productID int64) (bool, error) {
	args := s.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

type SpyContactRepo struct {
	mock.Mock
}

func (s *SpyContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	args := s.Called(ctx, msg)
	m, _ := args.Get(0).(*domain.ContactMessage)
	return m, args.Error(1)
}

type SpyOutbox struct {
	mock.Mock
}

func (s *SpyOutbox) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	args := s.Called(ctx, event)
	ev, _ := args.Get(0).(*OutboxEvent)
	return ev, args.Error(1)
}

type SpyLocalFiles struct {
	mock.Mock
}

func (s *SpyLocalFiles) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	args := s.Called(ctx, key, content)
	return args.Get(0).(int64), args.Error(1)
}

func (s *SpyLocalFiles) Open(ctx context.Context, key string) (*LocalFile, error) {
	args := s.Called(ctx, key)
	f, _ := args.Get(0).(*LocalFile)
	return f, args.Error(1)
}

func (s *SpyLocalFiles) Remove(ctx context.Context, key string) error {
	args := s.Called(ctx, key)
	return args.Error(0)
}

type SpyCache struct {
	mock.Mock
}

func (s *SpyCache) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	args := s.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (s *SpyCache) SetProduct(ctx context.Context, product *domain.Product) error {
	args := s.Called(ctx, product)
	return args.Error(0)
}

func (s *SpyCache) DeleteProduct(ctx context.Context, slug string) error {
	args := s.Called(ctx, slug)
	return args.Error(0)
}

type SpyObjects struct {
	mock.Mock
}

func (s *SpyObjects) UploadObjects(ctx context.Context, req *UploadObjectsReq) (*UploadObjectsRes, error) {
	args := s.Called(ctx, req)
	r, _ := args.Get(0).(*UploadObjectsRes)
	return r, args.Error(1)
}

func (s *SpyObjects) CleanupObjects(keys []string) {
	s.Called(keys)
}

type SpySigner struct {
	mock.Mock
}

func (s *SpySigner) PresignGet(ctx context.Context, req *PresignReq) (string, error) {
	args := s.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// inlineTx выполняет fn без настоящей транзакции.
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopReadSeekCloser struct {
	io.ReadSeeker
}

func (nopReadSeekCloser) Close() error { return nil }

func ptr[T any](v T) *T { return &v }

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
