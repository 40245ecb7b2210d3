package usecase

import (
	"context"
	"mime"
	"path"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	// ProductNotFoundURL возвращается вместо подписанной ссылки, если хранилище не настроено.
	ProductNotFoundURL = "/product_not_found/"
	// ForceDownloadContentType заставляет браузер скачать файл, а не открыть его.
	ForceDownloadContentType = "application/force-download"

	defaultProtectedDir = "protected"
	defaultFileExpire   = 200 * time.Second
)

// DownloadSettings — параметры хранилища, нужные для подписи ссылок.
type DownloadSettings struct {
	BucketName       string
	Region           string
	AccessKey        string
	SecretKey        string
	ProtectedDirName string
	Expires          time.Duration
}

func (s DownloadSettings) configured() bool {
	return s.BucketName != "" && s.Region != "" && s.AccessKey != "" && s.SecretKey != ""
}

// DownloadUseCase выдаёт доступ к защищённым файлам товаров.
type DownloadUseCase struct {
	productRepo  ProductRepository
	fileRepo     ProductFileRepository
	purchaseRepo PurchaseRepository
	localFiles   LocalFileRepository
	outbox       OutboxWriter
	signer       URLSigner
	settings     DownloadSettings
	logger       logger.Logger
}

func NewDownloadUC(
	productRepo ProductRepository,
	fileRepo ProductFileRepository,
	purchaseRepo PurchaseRepository,
	localFiles LocalFileRepository,
	outbox OutboxWriter,
	signer URLSigner,
	settings DownloadSettings,
	logger logger.Logger,
) *DownloadUseCase {
	if settings.Expires <= 0 {
		settings.Expires = defaultFileExpire
	}

	return &DownloadUseCase{
		productRepo:  productRepo,
		fileRepo:     fileRepo,
		purchaseRepo: purchaseRepo,
		localFiles:   localFiles,
		outbox:       outbox,
		signer:       signer,
		settings:     settings,
		logger:       logger,
	}
}

// GenerateDownloadURL подписывает временную ссылку на файл в бакете.
// Без бакета, региона или ключей доступа возвращает ProductNotFoundURL.
func (d *DownloadUseCase) GenerateDownloadURL(ctx context.Context, file *domain.ProductFile) (string, error) {
	const op = "DownloadUseCase.GenerateDownloadURL"

	if !d.settings.configured() {
		d.logger.Warnf("Storage credentials are not configured, returning fallback url. file_id: %d", file.ID)
		return ProductNotFoundURL, nil
	}

	key := ProtectedKey(d.settings.ProtectedDirName, file.FilePath)
	url, err := d.signer.PresignGet(ctx, NewPresignReq(key, file.DisplayName(), ForceDownloadContentType, d.settings.Expires))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// GenerateDownloadURLByID загружает файл по идентификатору и подписывает ссылку на него.
func (d *DownloadUseCase) GenerateDownloadURLByID(ctx context.Context, fileID int64) (string, error) {
	const op = "DownloadUseCase.GenerateDownloadURLByID"

	file, err := d.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	url, err := d.GenerateDownloadURL(ctx, file)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// Download проверяет права покупателя и решает, как отдать файл.
func (d *DownloadUseCase) Download(ctx context.Context, req *DownloadReq) (*DownloadRes, error) {
	const op = "DownloadUseCase.Download"

	product, err := d.productRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	file, err := d.fileRepo.GetByID(ctx, req.FileID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if file.ProductID != product.ID {
		return nil, e.Wrap(op, e.ErrProductFileNotFound)
	}

	allowed, err := d.canDownload(ctx, product, file, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !allowed {
		d.logger.Debugf("Download denied. product: %s, file_id: %d, user: %q", product.Slug, file.ID, req.UserID)
		return NewDeniedDownloadRes(product.AbsoluteURL()), nil
	}

	var res *DownloadRes
	switch file.Storage {
	case domain.StorageLocal:
		local, err := d.localFiles.Open(ctx, file.FilePath)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		res = NewLocalDownloadRes(local, file.DisplayName(), GuessContentType(file.FilePath))
	default:
		url, err := d.GenerateDownloadURL(ctx, file)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		res = NewRedirectDownloadRes(url)
		// заглушка не означает выданный доступ
		if url == ProductNotFoundURL {
			return res, nil
		}
	}

	d.recordGrant(ctx, product, file, req.UserID)

	return res, nil
}

// canDownload: бесплатный файл доступен всем, остальные только покупателям без возврата.
func (d *DownloadUseCase) canDownload(ctx context.Context, product *domain.Product, file *domain.ProductFile, userID string) (bool, error) {
	if file.Free {
		return true, nil
	}

	if userID == "" {
		return false, nil
	}

	return d.purchaseRepo.HasPurchased(ctx, userID, product.ID)
}

// recordGrant пишет событие download.granted; ошибка только логируется.
func (d *DownloadUseCase) recordGrant(ctx context.Context, product *domain.Product, file *domain.ProductFile, userID string) {
	const op = "DownloadUseCase.recordGrant"

	event, err := NewOutboxEvent(EventDownloadGranted, product.ID, DownloadGrantedPayload{
		ProductID: product.ID,
		FileID:    file.ID,
		UserID:    userID,
		Storage:   string(file.Storage),
	})
	if err != nil {
		d.logger.Warnf("Failed to build download event: %v", e.Wrap(op, err))
		return
	}

	if _, err := d.outbox.Create(ctx, event); err != nil {
		d.logger.Warnf("Failed to record download event: %v", e.Wrap(op, err))
	}
}

// GuessContentType определяет MIME-тип по расширению, иначе application/force-download.
func GuessContentType(filePath string) string {
	if ct := mime.TypeByExtension(path.Ext(filePath)); ct != "" {
		return ct
	}
	return ForceDownloadContentType
}

// AttachmentDisposition формирует значение Content-Disposition для скачивания под именем name.
// Имена не в ASCII кодируются как filename*=utf-8''...
func AttachmentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
