package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductFileHandler struct {
	fileUsecase     usecase.ProductFileUC
	downloadUsecase usecase.DownloadUC
	logger          logger.Logger
}

func NewProductFileHandler(fileUsecase usecase.ProductFileUC, downloadUsecase usecase.DownloadUC, logger logger.Logger) *ProductFileHandler {
	return &ProductFileHandler{fileUsecase: fileUsecase, downloadUsecase: downloadUsecase, logger: logger}
}

// addFile
//
//	@Summary		Прикрепление файла к товару
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			slug			path		string	true	"Slug товара"
//	@Param			file			formData	file	true	"Файл"
//	@Param			name			formData	string	false	"Отображаемое имя"
//	@Param			free			formData	boolean	false	"Скачивание без покупки"
//	@Param			user_required	formData	boolean	false	"Только для идентифицированных пользователей"
//	@Param			storage			formData	string	false	"s3 или local, по умолчанию s3"
//	@Success		201				{object}	DownloadResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/products/{slug}/files [post]
func (h *ProductFileHandler) addFile(w http.ResponseWriter, r *http.Request) {
	const (
		maxFileSize = 500 << 20
		maxMemory   = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+(1<<20))

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseProductFileForm(r, chi.URLParam(r, "slug"), maxFileSize)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	defer req.File.Close()

	file, err := h.fileUsecase.AddFile(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewDownloadResponses([]usecase.DownloadInfo{usecase.NewDownloadInfo(file, req.Slug)})[0])
}

func parseProductFileForm(r *http.Request, slug string, maxFileSize int64) (*usecase.AddProductFileReq, error) {
	storage, err := domain.ParseStorageKind(r.FormValue("storage"))
	if err != nil {
		return nil, err
	}

	free, err := parseBoolField(r, "free", false)
	if err != nil {
		return nil, err
	}
	userRequired, err := parseBoolField(r, "user_required", false)
	if err != nil {
		return nil, err
	}

	var name *string
	if n := strings.TrimSpace(r.FormValue("name")); n != "" {
		name = &n
	}

	// файл открывается последним, чтобы не закрывать его на ошибках полей
	upload, err := formFileStream(r, "file", maxFileSize)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, e.Wrap("file", e.ErrNoFile)
	}

	return usecase.NewAddProductFileReq(slug, name, free, userRequired, storage, upload), nil
}

// listFiles
//
//	@Summary	Файлы товара
//	@Tags		files
//	@Produce	json
//	@Param		slug	path		string	true	"Slug товара"
//	@Success	200		{array}		DownloadResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{slug}/files [get]
func (h *ProductFileHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	downloads, err := h.fileUsecase.ListDownloads(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewDownloadResponses(downloads))
}

// download
//
//	@Summary		Скачивание файла товара
//	@Description	Редирект на подписанную ссылку, отдача локального файла или редирект на карточку товара без доступа
//	@Tags			files
//	@Param			slug		path	string	true	"Slug товара"
//	@Param			id			path	integer	true	"ID файла"
//	@Param			X-User-ID	header	string	false	"Идентификатор покупателя"
//	@Success		200			"Файл из локального хранилища"
//	@Success		302			"Редирект на подписанную ссылку или карточку товара"
//	@Failure		404			{object}	ErrorResponse
//	@Router			/products/{slug}/files/{id}/download [get]
func (h *ProductFileHandler) download(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	req := usecase.NewDownloadReq(chi.URLParam(r, "slug"), id, strings.TrimSpace(r.Header.Get(userIDHeader)))
	res, err := h.downloadUsecase.Download(r.Context(), req)
	if err != nil {
		code, _ := ToHTTPResponse(err)
		if code == http.StatusInternalServerError {
			h.logger.Errorf(err, "download failed. product: %s, file_id: %d", req.Slug, req.FileID)
		}
		WriteError(w, err)
		return
	}

	switch res.Kind {
	case usecase.DownloadLocal:
		defer res.File.Content.Close()

		// отдача большого файла не укладывается в общий WriteTimeout
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			h.logger.Warnf("failed to reset write deadline: %v", err)
		}

		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", usecase.AttachmentDisposition(res.FileName))
		http.ServeContent(w, r, res.File.Name, res.File.ModTime, res.File.Content)
	default:
		http.Redirect(w, r, res.URL, http.StatusFound)
	}
}

// productNotFound отвечает на заглушку, которую получают при ненастроенном хранилище.
func productNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, e.ErrProductNotFound)
}
