package usecase

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/google/uuid"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	Title       string
	Description string
	Price       int64 // в центах
	Featured    bool
	Active      bool
	IsDigital   bool
	Image       *UploadFile // необязательное изображение товара
}

// ListProductsReq — выборка активных товаров, опционально только рекомендуемых.
type ListProductsReq struct {
	FeaturedOnly bool
}

// UploadFile представляет файл, загруженный через multipart/form-data.
// Content читается один раз при записи в хранилище.
type UploadFile struct {
	Content  io.ReadSeeker // содержимое файла, в памяти или во временном файле формы
	MimeType string        // определённый по содержимому Content-Type
	Size     int64         // фактический размер в байтах
	Name     string        // оригинальное имя файла
}

// Close освобождает содержимое, если оно открыто из временного файла.
func (f *UploadFile) Close() error {
	if c, ok := f.Content.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// PRODUCT FILE USECASE

// AddProductFileReq — запрос на прикрепление защищённого файла к товару.
type AddProductFileReq struct {
	Slug         string
	Name         *string
	Free         bool
	UserRequired bool
	Storage      domain.StorageKind
	File         *UploadFile
}

// DownloadInfo — DTO для списка скачиваемых файлов товара.
type DownloadInfo struct {
	ID           int64
	DisplayName  string
	Free         bool
	UserRequired bool
	DownloadURL  string
}

// DOWNLOAD USECASE

// DownloadReq — запрос на скачивание файла товара.
type DownloadReq struct {
	Slug   string
	FileID int64
	UserID string // идентификатор покупателя от шлюза, пустой для анонимов
}

// DownloadKind — способ, которым клиент получит файл.
type DownloadKind int

const (
	DownloadRedirect DownloadKind = iota // редирект на подписанную ссылку или заглушку
	DownloadLocal                        // отдача файла с локального диска
	DownloadDenied                       // нет доступа, редирект на карточку товара
)

// DownloadRes — результат обработки запроса на скачивание.
type DownloadRes struct {
	Kind        DownloadKind
	URL         string
	File        *LocalFile
	FileName    string
	ContentType string
}

// LocalFile — открытый файл из локального хранилища защищённых файлов.
type LocalFile struct {
	Content io.ReadSeekCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// CONTACT USECASE

// ContactReq — данные формы обратной связи.
type ContactReq struct {
	FullName string `json:"fullname" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required"`
}

// INFRASTRUCTURE

// PresignReq — запрос на подпись временной ссылки для скачивания объекта.
type PresignReq struct {
	Key         string
	FileName    string
	ContentType string
	Expires     time.Duration
}

// ObjectUpload — один объект для загрузки в хранилище.
type ObjectUpload struct {
	Key  string
	File UploadFile
}

// UploadObjectsReq — запрос на загрузку объектов в хранилище.
type UploadObjectsReq struct {
	Objects []ObjectUpload
}

// UploadObjectsRes — ключи успешно загруженных объектов.
type UploadObjectsRes struct {
	Keys []string
}

// WriteRawMessageReq — сообщение для Kafka с готовым payload.
type WriteRawMessageReq struct {
	Key       string // ключ партиционирования, id агрегата
	EventID   string
	EventType string
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventProductCreated   OutboxEventType = "product.created"
	EventProductFileAdded OutboxEventType = "product_file.added"
	EventDownloadGranted  OutboxEventType = "download.granted"
	EventContactSubmitted OutboxEventType = "contact.submitted"
)

// OutboxEvent — доменное событие, ожидающее отправки в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type ProductCreatedPayload struct {
	ProductID int64  `json:"product_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	IsDigital bool   `json:"is_digital"`
}

type ProductFileAddedPayload struct {
	ProductID int64  `json:"product_id"`
	FileID    int64  `json:"file_id"`
	Storage   string `json:"storage"`
	Free      bool   `json:"free"`
}

type DownloadGrantedPayload struct {
	ProductID int64  `json:"product_id"`
	FileID    int64  `json:"file_id"`
	UserID    string `json:"user_id,omitempty"`
	Storage   string `json:"storage"`
}

type ContactSubmittedPayload struct {
	MessageID int64  `json:"message_id"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
}

// MAPPERS

// NewOutboxEvent сериализует payload в JSON и создаёт событие в статусе pending.
func NewOutboxEvent(eventType OutboxEventType, aggregateID int64, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func NewCreateProductReq(title, description string, price int64, featured, active, isDigital bool, image *UploadFile) *CreateProductReq {
	return &CreateProductReq{
		Title:       title,
		Description: description,
		Price:       price,
		Featured:    featured,
		Active:      active,
		IsDigital:   isDigital,
		Image:       image,
	}
}

// NewUploadFile создаёт файл из байтов в памяти.
func NewUploadFile(data []byte, mimeType string, size int64, name string) *UploadFile {
	return NewStreamUploadFile(bytes.NewReader(data), mimeType, size, name)
}

// NewStreamUploadFile создаёт файл поверх открытого содержимого без копирования в память.
func NewStreamUploadFile(content io.ReadSeeker, mimeType string, size int64, name string) *UploadFile {
	return &UploadFile{
		Content:  content,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewAddProductFileReq(slug string, name *string, free, userRequired bool, storage domain.StorageKind, file *UploadFile) *AddProductFileReq {
	return &AddProductFileReq{
		Slug:         slug,
		Name:         name,
		Free:         free,
		UserRequired: userRequired,
		Storage:      storage,
		File:         file,
	}
}

func NewDownloadInfo(file *domain.ProductFile, productSlug string) DownloadInfo {
	return DownloadInfo{
		ID:           file.ID,
		DisplayName:  file.DisplayName(),
		Free:         file.Free,
		UserRequired: file.UserRequired,
		DownloadURL:  file.DownloadURL(productSlug),
	}
}

func NewDownloadReq(slug string, fileID int64, userID string) *DownloadReq {
	return &DownloadReq{
		Slug:   slug,
		FileID: fileID,
		UserID: userID,
	}
}

func NewRedirectDownloadRes(url string) *DownloadRes {
	return &DownloadRes{Kind: DownloadRedirect, URL: url}
}

func NewDeniedDownloadRes(url string) *DownloadRes {
	return &DownloadRes{Kind: DownloadDenied, URL: url}
}

func NewLocalDownloadRes(file *LocalFile, fileName, contentType string) *DownloadRes {
	return &DownloadRes{
		Kind:        DownloadLocal,
		File:        file,
		FileName:    fileName,
		ContentType: contentType,
	}
}

func NewLocalFile(content io.ReadSeekCloser, name string, size int64, modTime time.Time) *LocalFile {
	return &LocalFile{
		Content: content,
		Name:    name,
		Size:    size,
		ModTime: modTime,
	}
}

func NewPresignReq(key, fileName, contentType string, expires time.Duration) *PresignReq {
	return &PresignReq{
		Key:         key,
		FileName:    fileName,
		ContentType: contentType,
		Expires:     expires,
	}
}

func NewUploadObjectsReq(objects ...ObjectUpload) *UploadObjectsReq {
	return &UploadObjectsReq{Objects: objects}
}

func NewUploadObjectsRes(keys []string) *UploadObjectsRes {
	return &UploadObjectsRes{Keys: keys}
}

func NewWriteRawMessageReq(key, eventID, eventType string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventID:   eventID,
		EventType: eventType,
		Payload:   payload,
	}
}
