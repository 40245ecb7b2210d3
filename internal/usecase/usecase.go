package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, req *ListProductsReq) ([]domain.Product, error)
}

type ProductFileUC interface {
	AddFile(ctx context.Context, req *AddProductFileReq) (*domain.ProductFile, error)
	ListDownloads(ctx context.Context, slug string) ([]DownloadInfo, error)
}

type DownloadUC interface {
	Download(ctx context.Context, req *DownloadReq) (*DownloadRes, error)
	GenerateDownloadURL(ctx context.Context, file *domain.ProductFile) (string, error)
	GenerateDownloadURLByID(ctx context.Context, fileID int64) (string, error)
}

type ContactUC interface {
	Submit(ctx context.Context, req *ContactReq) error
}
