package converter

import (
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// ProductFileConverter преобразует сущности ProductFile между domain и моделью PostgreSQL.
type ProductFileConverter interface {
	ToModel(entity *domain.ProductFile) *ProductFileModel
	ToEntity(model *ProductFileModel) *domain.ProductFile
	ToArrEntity(models []*ProductFileModel) []domain.ProductFile
}

// ContactMessageConverter преобразует сущности ContactMessage между domain и моделью PostgreSQL.
type ContactMessageConverter interface {
	ToModel(entity *domain.ContactMessage) *ContactMessageModel
	ToEntity(model *ContactMessageModel) *domain.ContactMessage
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type productConverter struct{}

func NewProductConverter() ProductConverter { return productConverter{} }

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
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

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
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

func (c productConverter) ToArrEntity(models []*ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for _, m := range models {
		result = append(result, *c.ToEntity(m))
	}
	return result
}

type productFileConverter struct{}

func NewProductFileConverter() ProductFileConverter { return productFileConverter{} }

func (productFileConverter) ToModel(entity *domain.ProductFile) *ProductFileModel {
	if entity == nil {
		return nil
	}
	return &ProductFileModel{
		ID:           entity.ID,
		ProductID:    entity.ProductID,
		Name:         entity.Name,
		FilePath:     entity.FilePath,
		Storage:      string(entity.Storage),
		Free:         entity.Free,
		UserRequired: entity.UserRequired,
		CreatedAt:    entity.CreatedAt,
	}
}

func (productFileConverter) ToEntity(model *ProductFileModel) *domain.ProductFile {
	if model == nil {
		return nil
	}
	return &domain.ProductFile{
		ID:           model.ID,
		ProductID:    model.ProductID,
		Name:         model.Name,
		FilePath:     model.FilePath,
		Storage:      domain.StorageKind(model.Storage),
		Free:         model.Free,
		UserRequired: model.UserRequired,
		CreatedAt:    model.CreatedAt,
	}
}

func (c productFileConverter) ToArrEntity(models []*ProductFileModel) []domain.ProductFile {
	result := make([]domain.ProductFile, 0, len(models))
	for _, m := range models {
		result = append(result, *c.ToEntity(m))
	}
	return result
}

type contactMessageConverter struct{}

func NewContactMessageConverter() ContactMessageConverter { return contactMessageConverter{} }

func (contactMessageConverter) ToModel(entity *domain.ContactMessage) *ContactMessageModel {
	if entity == nil {
		return nil
	}
	return &ContactMessageModel{
		ID:        entity.ID,
		FullName:  entity.FullName,
		Email:     entity.Email,
		Content:   entity.Content,
		CreatedAt: entity.CreatedAt,
	}
}

func (contactMessageConverter) ToEntity(model *ContactMessageModel) *domain.ContactMessage {
	if model == nil {
		return nil
	}
	return &domain.ContactMessage{
		ID:        model.ID,
		FullName:  model.FullName,
		Email:     model.Email,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter { return outboxEventConverter{} }

func (outboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (outboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}
