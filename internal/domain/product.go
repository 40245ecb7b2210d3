package domain

import (
	"fmt"
	"time"
)

// DefaultPrice — цена товара по умолчанию (39.99) в центах
const DefaultPrice int64 = 3999

// Product описывает товар каталога
type Product struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Price       int64   // Цена хранится в центах
	ImagePath   *string // ключ изображения в хранилище, если оно загружено
	Featured    bool
	Active      bool
	IsDigital   bool
	CreatedAt   time.Time
}

func NewProduct(title, description string, price int64, featured, active, isDigital bool) *Product {
	return &Product{
		Title:       title,
		Description: description,
		Price:       price,
		Featured:    featured,
		Active:      active,
		IsDigital:   isDigital,
	}
}

// AbsoluteURL возвращает адрес карточки товара.
func (p *Product) AbsoluteURL() string {
	return fmt.Sprintf("/api/v1/products/%s", p.Slug)
}
