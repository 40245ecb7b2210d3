package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SpyProductUC struct{ mock.Mock }

func (s *SpyProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	args := s.Called(ctx, req)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (s *SpyProductUC) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	args := s.Called(ctx, slug)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (s *SpyProductUC) ListProducts(ctx context.Context, req *usecase.ListProductsReq) ([]domain.Product, error) {
	args := s.Called(ctx, req)
	p, _ := args.Get(0).([]domain.Product)
	return p, args.Error(1)
}

type SpyProductFileUC struct{ mock.Mock }

func (s *SpyProductFileUC) AddFile(ctx context.Context, req *usecase.AddProductFileReq) (*domain.ProductFile, error) {
	args := s.Called(ctx, req)
	f, _ := args.Get(0).(*domain.ProductFile)
	return f, args.Error(1)
}

func (s *SpyProductFileUC) ListDownloads(ctx context.Context, slug string) ([]usecase.DownloadInfo, error) {
	args := s.Called(ctx, slug)
	d, _ := args.Get(0).([]usecase.DownloadInfo)
	return d, args.Error(1)
}

type SpyDownloadUC struct{ mock.Mock }

func (s *SpyDownloadUC) Download(ctx context.Context, req *usecase.DownloadReq) (*usecase.DownloadRes, error) {
	args := s.Called(ctx, req)
	r, _ := args.Get(0).(*usecase.DownloadRes)
	return r, args.Error(1)
}

func (s *SpyDownloadUC) GenerateDownloadURL(ctx context.Context, file *domain.ProductFile) (string, error) {
	args := s.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (s *SpyDownloadUC) GenerateDownloadURLByID(ctx context.Context, fileID int64) (string, error) {
	args := s.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}

type SpyContactUC struct{ mock.Mock }

func (s *SpyContactUC) Submit(ctx context.Context, req *usecase.ContactReq) error {
	return s.Called(ctx, req).Error(0)
}

type testAPI struct {
	handler  http.Handler
	products *SpyProductUC
	files    *SpyProductFileUC
	download *SpyDownloadUC
	contact  *SpyContactUC
}

func newTestAPI() *testAPI {
	api := &testAPI{
		products: new(SpyProductUC),
		files:    new(SpyProductFileUC),
		download: new(SpyDownloadUC),
		contact:  new(SpyContactUC),
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNop()).Init(UseCases{
		Product:     api.products,
		ProductFile: api.files,
		Download:    api.download,
		Contact:     api.contact,
	}, []string{"*"})
	api.handler = mux

	return api
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func uploadContent(f *usecase.UploadFile) string {
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return ""
	}
	_, _ = f.Content.Seek(0, io.SeekStart)
	return string(data)
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:        1,
		Title:     "E-book",
		Slug:      "e-book",
		Price:     3999,
		Active:    true,
		IsDigital: true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.Wrap("op", e.ErrInvalidPrice), http.StatusBadRequest},
		{e.Wrap("op", e.ErrTitleTooLong), http.StatusBadRequest},
		{e.Wrap("op", e.ErrInvalidStorage), http.StatusBadRequest},
		{e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{e.Wrap("op", e.ErrLocalFileNotFound), http.StatusNotFound},
		{e.Wrap("op", e.ErrUnsupportedMediaType), http.StatusUnsupportedMediaType},
		{e.Wrap("op", e.ErrSlugConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, _ := ToHTTPResponse(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestParsePriceToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"", domain.DefaultPrice, nil},
		{"599.99", 59999, nil},
		{"600", 60000, nil},
		{"0", 0, nil},
		{" 1.5 ", 150, nil},
		{"1.500", 150, nil},
		{"1.999", 0, e.ErrPricePrecision},
		{"-1", 0, e.ErrInvalidPrice},
		{"abc", 0, e.ErrInvalidPrice},
		{"1000000001", 0, e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		got, err := parsePriceToCents(tt.in)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "39.99", formatCents(3999))
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "100.00", formatCents(10000))
}

func TestCreateProduct(t *testing.T) {
	api := newTestAPI()
	body, ct := multipartBody(t, map[string]string{
		"title":      "E-book",
		"price":      "12.50",
		"featured":   "false",
		"is_digital": "true",
	}, "image", "cover.png", pngHeader)

	api.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *usecase.CreateProductReq) bool {
		return req.Title == "E-book" && req.Price == 1250 && !req.Featured && req.Active && req.IsDigital &&
			req.Image != nil && req.Image.MimeType == "image/png" && req.Image.Name == "cover.png"
	})).Return(sampleProduct(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", ct)
	rec := api.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "e-book", res.Slug)
	assert.Equal(t, "39.99", res.Price)
	assert.Equal(t, "/api/v1/products/e-book", res.URL)
	api.products.AssertExpectations(t)
}

func TestCreateProduct_Defaults(t *testing.T) {
	api := newTestAPI()
	body, ct := multipartBody(t, map[string]string{"title": "E-book"}, "", "", nil)

	api.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *usecase.CreateProductReq) bool {
		return req.Price == 3999 && req.Featured && req.Active && !req.IsDigital && req.Image == nil
	})).Return(sampleProduct(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", ct)
	rec := api.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	api.products.AssertExpectations(t)
}

func TestCreateProduct_Errors(t *testing.T) {
	t.Run("missing title", func(t *testing.T) {
		api := newTestAPI()
		body, ct := multipartBody(t, map[string]string{"price": "1"}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
		req.Header.Set("Content-Type", ct)

		assert.Equal(t, http.StatusBadRequest, api.do(req).Code)
		api.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		api := newTestAPI()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")

		assert.Equal(t, http.StatusBadRequest, api.do(req).Code)
	})

	t.Run("image is not an image", func(t *testing.T) {
		api := newTestAPI()
		body, ct := multipartBody(t, map[string]string{"title": "x"}, "image", "cover.png", []byte("plain text"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
		req.Header.Set("Content-Type", ct)

		assert.Equal(t, http.StatusUnsupportedMediaType, api.do(req).Code)
	})

	t.Run("slug conflict", func(t *testing.T) {
		api := newTestAPI()
		api.products.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, e.Wrap("op", e.ErrSlugConflict))
		body, ct := multipartBody(t, map[string]string{"title": "x"}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
		req.Header.Set("Content-Type", ct)

		assert.Equal(t, http.StatusConflict, api.do(req).Code)
	})
}

func TestListProducts(t *testing.T) {
	api := newTestAPI()
	api.products.On("ListProducts", mock.Anything, &usecase.ListProductsReq{FeaturedOnly: true}).
		Return([]domain.Product{*sampleProduct()}, nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products?featured=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res []ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 1)
	assert.Equal(t, "e-book", res[0].Slug)
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI()
	api.products.On("GetProduct", mock.Anything, "e-book").Return(sampleProduct(), nil)
	api.files.On("ListDownloads", mock.Anything, "e-book").Return([]usecase.DownloadInfo{{
		ID:          2,
		DisplayName: "Guide.pdf",
		Free:        true,
		DownloadURL: "/api/v1/products/e-book/files/2/download",
	}}, nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var res ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Downloads, 1)
	assert.Equal(t, "Guide.pdf", res.Downloads[0].DisplayName)
}

func TestGetProduct_NotFound(t *testing.T) {
	api := newTestAPI()
	api.products.On("GetProduct", mock.Anything, "nope").Return(nil, e.Wrap("op", e.ErrProductNotFound))

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "product not found", res.Message)
}

func TestAddFile(t *testing.T) {
	api := newTestAPI()
	body, ct := multipartBody(t, map[string]string{
		"name":    "Guide",
		"storage": "local",
		"free":    "1",
	}, "file", "guide.pdf", []byte("%PDF-1.4"))

	name := "Guide"
	api.files.On("AddFile", mock.Anything, mock.MatchedBy(func(req *usecase.AddProductFileReq) bool {
		return req.Slug == "e-book" && req.Storage == domain.StorageLocal && req.Free && !req.UserRequired &&
			req.Name != nil && *req.Name == "Guide" && uploadContent(req.File) == "%PDF-1.4" &&
			req.File.Size == 8 && req.File.MimeType == "application/pdf"
	})).Return(&domain.ProductFile{ID: 5, ProductID: 1, Name: &name, FilePath: "product/e-book/5guide.pdf", Storage: domain.StorageLocal, Free: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/e-book/files", body)
	req.Header.Set("Content-Type", ct)
	rec := api.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res DownloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(5), res.ID)
	assert.Equal(t, "/api/v1/products/e-book/files/5/download", res.DownloadURL)
}

func TestAddFile_StreamsFromForm(t *testing.T) {
	api := newTestAPI()
	body, ct := multipartBody(t, map[string]string{"storage": "s3"}, "file", "course.zip", []byte("PK\x03\x04archive"))

	api.files.On("AddFile", mock.Anything, mock.MatchedBy(func(req *usecase.AddProductFileReq) bool {
		_, buffered := req.File.Content.(*bytes.Reader)
		_, closable := req.File.Content.(io.Closer)
		return !buffered && closable && req.File.Name == "course.zip" && uploadContent(req.File) == "PK\x03\x04archive"
	})).Return(&domain.ProductFile{ID: 9, ProductID: 1, FilePath: "product/e-book/9course.zip", Storage: domain.StorageS3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/e-book/files", body)
	req.Header.Set("Content-Type", ct)
	rec := api.do(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	api.files.AssertExpectations(t)
}

func TestAddFile_Errors(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		api := newTestAPI()
		body, ct := multipartBody(t, map[string]string{"name": "x"}, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/e-book/files", body)
		req.Header.Set("Content-Type", ct)

		assert.Equal(t, http.StatusBadRequest, api.do(req).Code)
	})

	t.Run("unknown storage", func(t *testing.T) {
		api := newTestAPI()
		body, ct := multipartBody(t, map[string]string{"storage": "ftp"}, "file", "a.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/e-book/files", body)
		req.Header.Set("Content-Type", ct)

		assert.Equal(t, http.StatusBadRequest, api.do(req).Code)
	})
}

func TestListFiles(t *testing.T) {
	api := newTestAPI()
	api.files.On("ListDownloads", mock.Anything, "e-book").Return([]usecase.DownloadInfo{}, nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDownload_RedirectToSignedURL(t *testing.T) {
	api := newTestAPI()
	signed := "https://bucket.s3.amazonaws.com/protected/product/e-book/2guide.pdf?X-Amz-Expires=200"
	api.download.On("Download", mock.Anything, &usecase.DownloadReq{Slug: "e-book", FileID: 2, UserID: "u-1"}).
		Return(usecase.NewRedirectDownloadRes(signed), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/2/download", nil)
	req.Header.Set("X-User-ID", "u-1")
	rec := api.do(req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, signed, rec.Header().Get("Location"))
}

func TestDownload_UnconfiguredStorageRedirectsToFallback(t *testing.T) {
	api := newTestAPI()
	api.download.On("Download", mock.Anything, mock.Anything).Return(usecase.NewRedirectDownloadRes(usecase.ProductNotFoundURL), nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/2/download", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/product_not_found/", rec.Header().Get("Location"))
}

func TestDownload_DeniedRedirectsToProduct(t *testing.T) {
	api := newTestAPI()
	api.download.On("Download", mock.Anything, mock.Anything).Return(usecase.NewDeniedDownloadRes("/api/v1/products/e-book"), nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/2/download", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/v1/products/e-book", rec.Header().Get("Location"))
}

type readSeekCloser struct {
	*bytes.Reader
	closed bool
}

func (r *readSeekCloser) Close() error {
	r.closed = true
	return nil
}

func TestDownload_LocalFile(t *testing.T) {
	api := newTestAPI()
	content := &readSeekCloser{Reader: bytes.NewReader([]byte("%PDF-1.4 body"))}
	file := usecase.NewLocalFile(content, "2guide.pdf", 13, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	api.download.On("Download", mock.Anything, mock.Anything).Return(usecase.NewLocalDownloadRes(file, "Guide.pdf", "application/pdf"), nil)

	rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/2/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Guide.pdf`, rec.Header().Get("Content-Disposition"))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(body))
	assert.True(t, content.closed)
}

func TestDownload_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		api := newTestAPI()
		rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/abc/download", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("file not found", func(t *testing.T) {
		api := newTestAPI()
		api.download.On("Download", mock.Anything, mock.Anything).Return(nil, e.Wrap("op", e.ErrProductFileNotFound))
		rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/9/download", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("signer failure", func(t *testing.T) {
		api := newTestAPI()
		api.download.On("Download", mock.Anything, mock.Anything).Return(nil, errors.New("presign failed"))
		rec := api.do(httptest.NewRequest(http.MethodGet, "/api/v1/products/e-book/files/9/download", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestProductNotFoundRoute(t *testing.T) {
	api := newTestAPI()
	rec := api.do(httptest.NewRequest(http.MethodGet, "/product_not_found/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestContact_JSON(t *testing.T) {
	api := newTestAPI()
	api.contact.On("Submit", mock.Anything, &usecase.ContactReq{FullName: "Jane", Email: "jane@example.com", Content: "Hi"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(`{"fullname":"Jane","email":"jane@example.com","content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := api.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Thank you for your submission!"}`, rec.Body.String())
}

func TestContact_Form(t *testing.T) {
	api := newTestAPI()
	api.contact.On("Submit", mock.Anything, &usecase.ContactReq{FullName: "Jane", Email: "jane@example.com", Content: "Hi"}).Return(nil)

	form := url.Values{"fullname": {"Jane"}, "email": {"jane@example.com"}, "content": {"Hi"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := api.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContact_ValidationErrors(t *testing.T) {
	api := newTestAPI()
	verr := &usecase.ValidationError{Fields: map[string][]usecase.FieldError{
		"email": {{Message: "Enter a valid email address.", Code: "invalid"}},
	}}
	api.contact.On("Submit", mock.Anything, mock.Anything).Return(e.Wrap("ContactUseCase.Submit", verr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(`{"fullname":"Jane","email":"nope","content":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := api.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"email":[{"message":"Enter a valid email address.","code":"invalid"}]}`, rec.Body.String())
}

func TestContact_MalformedJSON(t *testing.T) {
	api := newTestAPI()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(`{"fullname":`))
	req.Header.Set("Content-Type", "application/json")

	assert.Equal(t, http.StatusBadRequest, api.do(req).Code)
	api.contact.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}
