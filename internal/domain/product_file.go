package domain

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
)

// StorageKind определяет, где физически лежит файл товара.
type StorageKind string

const (
	StorageS3    StorageKind = "s3"
	StorageLocal StorageKind = "local"
)

// ParseStorageKind разбирает вид хранилища; пустая строка означает s3.
func ParseStorageKind(s string) (StorageKind, error) {
	switch StorageKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", StorageS3:
		return StorageS3, nil
	case StorageLocal:
		return StorageLocal, nil
	default:
		return "", e.Wrap(s, e.ErrInvalidStorage)
	}
}

// ProductFile описывает защищённый файл цифрового товара
type ProductFile struct {
	ID           int64
	ProductID    int64
	Name         *string
	FilePath     string // путь относительно каталога защищённых файлов
	Storage      StorageKind
	Free         bool // скачивание без покупки
	UserRequired bool // скачивание только для идентифицированного пользователя
	CreatedAt    time.Time
}

func NewProductFile(productID int64, name *string, filePath string, storage StorageKind, free, userRequired bool) *ProductFile {
	return &ProductFile{
		ProductID:    productID,
		Name:         name,
		FilePath:     filePath,
		Storage:      storage,
		Free:         free,
		UserRequired: userRequired,
	}
}

// DisplayName — имя, под которым файл отдаётся пользователю.
func (f *ProductFile) DisplayName() string {
	if f.Name != nil && *f.Name != "" {
		return *f.Name
	}
	return path.Base(f.FilePath)
}

// DownloadURL возвращает адрес скачивания файла в рамках товара.
func (f *ProductFile) DownloadURL(productSlug string) string {
	return fmt.Sprintf("/api/v1/products/%s/files/%d/download", productSlug, f.ID)
}
