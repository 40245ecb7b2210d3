package converter

import "github.com/DRSN-tech/storefront/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          entity.ID,
		Title:       entity.Title,
		Slug:        entity.Slug,
		Description: entity.Description,
		Price:       entity.Price,
		ImagePath:   entity.ImagePath,
		Featured:    entity.Featured,
		Active:      entity.Active,
		IsDigital:   entity.IsDigital,
		CreatedAt:   entity.CreatedAt,
	}
}

func (productConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Title:       model.Title,
		Slug:        model.Slug,
		Description: model.Description,
		Price:       model.Price,
		ImagePath:   model.ImagePath,
		Featured:    model.Featured,
		Active:      model.Active,
		IsDigital:   model.IsDigital,
		CreatedAt:   model.CreatedAt,
	}
}
