package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// userIDHeader — идентификатор покупателя, который проставляет шлюз авторизации.
const userIDHeader = "X-User-ID"

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

var (
	badRequestErrors = []error{
		e.ErrStatusBadRequest,
		e.ErrExpectedMultipart,
		e.ErrMissingFields,
		e.ErrInvalidPrice,
		e.ErrPricePrecision,
		e.ErrTitleRequired,
		e.ErrTitleTooLong,
		e.ErrNameTooLong,
		e.ErrPriceMustBePositive,
		e.ErrFileTooLarge,
		e.ErrNoFile,
		e.ErrInvalidStorage,
		e.ErrInvalidID,
		e.ErrInvalidPath,
		e.ErrValidation,
	}
	notFoundErrors = []error{
		e.ErrProductNotFound,
		e.ErrProductFileNotFound,
		e.ErrLocalFileNotFound,
	}
)

func ToHTTPResponse(err error) (int, string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, target.Error()
		}
	}

	switch {
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrSlugConflict):
		return http.StatusConflict, e.ErrSlugConflict.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// WriteError пишет ошибку в JSON. Ошибки формы отдаются по полям.
func WriteError(w http.ResponseWriter, err error) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		WriteSuccess(w, http.StatusBadRequest, verr.Fields)
		return
	}

	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceToCents converts a string like "599.99" or "600" to int64 cents.
// Empty input yields domain.DefaultPrice.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return domain.DefaultPrice, nil
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	return cents.IntPart(), nil
}

// formatCents переводит цену в центах в строку вида "39.99".
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func parseBoolField(r *http.Request, field string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, e.Wrap(field, e.ErrStatusBadRequest)
	}
	return v, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// formFile читает необязательный файл формы, без файла возвращает (nil, nil).
func formFile(r *http.Request, field string, maxSize int64) (*usecase.UploadFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}

	return readFile(files[0], maxSize)
}

func readFile(fh *multipart.FileHeader, maxSize int64) (*usecase.UploadFile, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewUploadFile(data, mimeType, int64(len(data)), fh.Filename), nil
}

// formFileStream открывает файл формы без чтения в память. Вызывающий закрывает его через Close.
func formFileStream(r *http.Request, field string, maxSize int64) (*usecase.UploadFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}

	fh := files[0]
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}

	head := make([]byte, 512)
	n, err := src.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		src.Close()
		return nil, e.ErrInternalServerError
	}

	return usecase.NewStreamUploadFile(src, http.DetectContentType(head[:n]), fh.Size, fh.Filename), nil
}

// ensureImage отклоняет изображения товара, которые не распознаны как картинка.
func ensureImage(file *usecase.UploadFile) error {
	if file == nil {
		return nil
	}
	if !strings.HasPrefix(file.MimeType, "image/") {
		return e.Wrap(file.MimeType, e.ErrUnsupportedMediaType)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, e.Wrap(raw, e.ErrInvalidID)
	}
	return id, nil
}
