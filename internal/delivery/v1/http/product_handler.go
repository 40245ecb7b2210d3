package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ProductResponse — карточка товара в ответах API.
type ProductResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Price       string             `json:"price"`
	ImagePath   *string            `json:"image_path,omitempty"`
	Featured    bool               `json:"featured"`
	IsDigital   bool               `json:"is_digital"`
	URL         string             `json:"url"`
	CreatedAt   time.Time          `json:"created_at"`
	Downloads   []DownloadResponse `json:"downloads,omitempty"`
}

// DownloadResponse — файл товара, доступный для скачивания.
type DownloadResponse struct {
	ID           int64  `json:"id"`
	DisplayName  string `json:"display_name"`
	Free         bool   `json:"free"`
	UserRequired bool   `json:"user_required"`
	DownloadURL  string `json:"download_url"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       formatCents(p.Price),
		ImagePath:   p.ImagePath,
		Featured:    p.Featured,
		IsDigital:   p.IsDigital,
		URL:         p.AbsoluteURL(),
		CreatedAt:   p.CreatedAt,
	}
}

func NewDownloadResponses(infos []usecase.DownloadInfo) []DownloadResponse {
	res := make([]DownloadResponse, 0, len(infos))
	for _, info := range infos {
		res = append(res, DownloadResponse{
			ID:           info.ID,
			DisplayName:  info.DisplayName,
			Free:         info.Free,
			UserRequired: info.UserRequired,
			DownloadURL:  info.DownloadURL,
		})
	}
	return res
}

type ProductHandler struct {
	productUsecase usecase.ProductUC
	fileUsecase    usecase.ProductFileUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, fileUsecase usecase.ProductFileUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, fileUsecase: fileUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар каталога с необязательным изображением
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string	true	"Название товара"
//	@Param			description	formData	string	false	"Описание"
//	@Param			price		formData	number	false	"Цена, по умолчанию 39.99"
//	@Param			featured	formData	boolean	false	"Рекомендуемый, по умолчанию true"
//	@Param			active		formData	boolean	false	"Активный, по умолчанию true"
//	@Param			is_digital	formData	boolean	false	"Цифровой, по умолчанию false"
//	@Param			image		formData	file	false	"Изображение товара"
//	@Success		201			{object}	ProductResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409			{object}	ErrorResponse	"Slug занят"
//	@Failure		415			{object}	ErrorResponse	"Файл не является изображением"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
		maxImageSize        = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseProductForm(r, maxImageSize)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductResponse(product))
}

func parseProductForm(r *http.Request, maxImageSize int64) (*usecase.CreateProductReq, error) {
	title := r.FormValue("title")
	if title == "" {
		return nil, e.Wrap("title", e.ErrMissingFields)
	}

	price, err := parsePriceToCents(r.FormValue("price"))
	if err != nil {
		return nil, err
	}

	featured, err := parseBoolField(r, "featured", true)
	if err != nil {
		return nil, err
	}
	active, err := parseBoolField(r, "active", true)
	if err != nil {
		return nil, err
	}
	isDigital, err := parseBoolField(r, "is_digital", false)
	if err != nil {
		return nil, err
	}

	image, err := formFile(r, "image", maxImageSize)
	if err != nil {
		return nil, err
	}
	if err := ensureImage(image); err != nil {
		return nil, err
	}

	return usecase.NewCreateProductReq(title, r.FormValue("description"), price, featured, active, isDigital, image), nil
}

// listProducts
//
//	@Summary	Список активных товаров
//	@Tags		products
//	@Produce	json
//	@Param		featured	query		boolean	false	"Только рекомендуемые"
//	@Success	200			{array}		ProductResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	featured, err := parseBoolField(r, "featured", false)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(), &usecase.ListProductsReq{FeaturedOnly: featured})
	if err != nil {
		p.logger.Errorf(err, "failed to list products")
		WriteError(w, err)
		return
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, NewProductResponse(&products[i]))
	}

	WriteSuccess(w, http.StatusOK, res)
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		slug	path		string	true	"Slug товара"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{slug} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := p.productUsecase.GetProduct(r.Context(), slug)
	if err != nil {
		WriteError(w, err)
		return
	}

	downloads, err := p.fileUsecase.ListDownloads(r.Context(), slug)
	if err != nil {
		p.logger.Errorf(err, "failed to list downloads for %s", slug)
		WriteError(w, err)
		return
	}

	res := NewProductResponse(product)
	res.Downloads = NewDownloadResponses(downloads)
	WriteSuccess(w, http.StatusOK, res)
}
