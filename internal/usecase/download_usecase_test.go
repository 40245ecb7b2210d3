package usecase

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fullSettings = DownloadSettings{
	BucketName: "halex-bucket",
	Region:     "us-east-1",
	AccessKey:  "AKIATEST",
	SecretKey:  "secret",
}

type downloadDeps struct {
	products  *SpyProductRepo
	files     *SpyProductFileRepo
	purchases *SpyPurchaseRepo
	local     *SpyLocalFiles
	outbox    *SpyOutbox
	signer    *SpySigner
}

func newDownloadUC(t *testing.T, settings DownloadSettings) (*DownloadUseCase, *downloadDeps) {
	t.Helper()
	d := &downloadDeps{
		products:  new(SpyProductRepo),
		files:     new(SpyProductFileRepo),
		purchases: new(SpyPurchaseRepo),
		local:     new(SpyLocalFiles),
		outbox:    new(SpyOutbox),
		signer:    new(SpySigner),
	}
	uc := NewDownloadUC(d.products, d.files, d.purchases, d.local, d.outbox, d.signer, settings, logger.NewNop())
	return uc, d
}

func ebook() *domain.Product {
	return &domain.Product{ID: 7, Title: "Go Book", Slug: "go-book", Active: true, IsDigital: true}
}

func ebookFile(free bool) *domain.ProductFile {
	return &domain.ProductFile{
		ID:        3,
		ProductID: 7,
		FilePath:  "product/go-book/3book.pdf",
		Storage:   domain.StorageS3,
		Free:      free,
		CreatedAt: fixedTime,
	}
}

func TestGenerateDownloadURL_FallbackWhenUnconfigured(t *testing.T) {
	strips := map[string]func(*DownloadSettings){
		"bucket":     func(s *DownloadSettings) { s.BucketName = "" },
		"region":     func(s *DownloadSettings) { s.Region = "" },
		"access key": func(s *DownloadSettings) { s.AccessKey = "" },
		"secret key": func(s *DownloadSettings) { s.SecretKey = "" },
	}

	for name, strip := range strips {
		t.Run(name, func(t *testing.T) {
			settings := fullSettings
			strip(&settings)
			uc, d := newDownloadUC(t, settings)

			url, err := uc.GenerateDownloadURL(context.Background(), ebookFile(false))

			require.NoError(t, err)
			assert.Equal(t, "/product_not_found/", url)
			d.signer.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateDownloadURL_SignsProtectedKey(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	file := ebookFile(false)
	file.Name = ptr("Go Book.pdf")

	d.signer.On("PresignGet", mock.Anything, &PresignReq{
		Key:         "protected/product/go-book/3book.pdf",
		FileName:    "Go Book.pdf",
		ContentType: "application/force-download",
		Expires:     200 * time.Second,
	}).Return("https://signed.example/obj?X-Amz-Signature=abc", nil)

	url, err := uc.GenerateDownloadURL(context.Background(), file)

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/obj?X-Amz-Signature=abc", url)
	d.signer.AssertExpectations(t)
}

func TestGenerateDownloadURL_CustomDirAndExpiry(t *testing.T) {
	settings := fullSettings
	settings.ProtectedDirName = "vault/"
	settings.Expires = time.Minute
	uc, d := newDownloadUC(t, settings)

	d.signer.On("PresignGet", mock.Anything, mock.MatchedBy(func(req *PresignReq) bool {
		return req.Key == "vault/product/go-book/3book.pdf" && req.Expires == time.Minute && req.FileName == "3book.pdf"
	})).Return("https://signed.example/x", nil)

	_, err := uc.GenerateDownloadURL(context.Background(), ebookFile(false))

	require.NoError(t, err)
	d.signer.AssertExpectations(t)
}

func TestGenerateDownloadURL_SignerError(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	signErr := errors.New("boom")
	d.signer.On("PresignGet", mock.Anything, mock.Anything).Return("", signErr)

	url, err := uc.GenerateDownloadURL(context.Background(), ebookFile(false))

	assert.ErrorIs(t, err, signErr)
	assert.Empty(t, url)
}

func TestGenerateDownloadURLByID(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(ebookFile(true), nil)
	d.signer.On("PresignGet", mock.Anything, mock.Anything).Return("https://signed.example/x", nil)

	url, err := uc.GenerateDownloadURLByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/x", url)

	d.files.On("GetByID", mock.Anything, int64(99)).Return(nil, e.ErrProductFileNotFound)
	_, err = uc.GenerateDownloadURLByID(context.Background(), 99)
	assert.ErrorIs(t, err, e.ErrProductFileNotFound)
}

func TestDownload_AccessMatrix(t *testing.T) {
	tests := []struct {
		name         string
		free         bool
		userRequired bool
		userID       string
		purchased    *bool
		wantKind     DownloadKind
	}{
		{name: "free anonymous", free: true, wantKind: DownloadRedirect},
		{name: "free user required anonymous", free: true, userRequired: true, wantKind: DownloadRedirect},
		{name: "paid anonymous", wantKind: DownloadDenied},
		{name: "paid purchased", userID: "u-1", purchased: ptr(true), wantKind: DownloadRedirect},
		{name: "paid refunded", userID: "u-1", purchased: ptr(false), wantKind: DownloadDenied},
		{name: "paid user required purchased", userRequired: true, userID: "u-1", purchased: ptr(true), wantKind: DownloadRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, d := newDownloadUC(t, fullSettings)
			file := ebookFile(tt.free)
			file.UserRequired = tt.userRequired

			d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
			d.files.On("GetByID", mock.Anything, int64(3)).Return(file, nil)
			if tt.purchased != nil {
				d.purchases.On("HasPurchased", mock.Anything, tt.userID, int64(7)).Return(*tt.purchased, nil)
			}
			d.signer.On("PresignGet", mock.Anything, mock.Anything).Return("https://signed.example/x", nil).Maybe()
			d.outbox.On("Create", mock.Anything, mock.Anything).Return(&OutboxEvent{ID: 1}, nil).Maybe()

			res, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, tt.userID))

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind)
			if tt.wantKind == DownloadDenied {
				assert.Equal(t, "/api/v1/products/go-book", res.URL)
				d.outbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.Equal(t, "https://signed.example/x", res.URL)
				d.outbox.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(ev *OutboxEvent) bool {
					return ev.EventType == EventDownloadGranted && ev.AggregateID == 7
				}))
			}
			d.purchases.AssertExpectations(t)
		})
	}
}

func TestDownload_FileOfAnotherProduct(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	file := ebookFile(true)
	file.ProductID = 8

	d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(file, nil)

	_, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, ""))

	assert.ErrorIs(t, err, e.ErrProductFileNotFound)
}

func TestDownload_UnconfiguredStorageSkipsEvent(t *testing.T) {
	uc, d := newDownloadUC(t, DownloadSettings{})

	d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(ebookFile(true), nil)

	res, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, ""))

	require.NoError(t, err)
	assert.Equal(t, DownloadRedirect, res.Kind)
	assert.Equal(t, ProductNotFoundURL, res.URL)
	d.outbox.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDownload_LocalFile(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	file := ebookFile(true)
	file.Storage = domain.StorageLocal
	file.Name = ptr("Go Book.pdf")

	local := &LocalFile{
		Content: nopReadSeekCloser{bytes.NewReader([]byte("%PDF-1.4"))},
		Name:    "3book.pdf",
		Size:    8,
		ModTime: fixedTime,
	}

	d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(file, nil)
	d.local.On("Open", mock.Anything, "product/go-book/3book.pdf").Return(local, nil)
	d.outbox.On("Create", mock.Anything, mock.Anything).Return(&OutboxEvent{ID: 1}, nil)

	res, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, ""))

	require.NoError(t, err)
	assert.Equal(t, DownloadLocal, res.Kind)
	assert.Equal(t, "Go Book.pdf", res.FileName)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Same(t, local, res.File)
	d.signer.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything)
}

func TestDownload_LocalFileMissing(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)
	file := ebookFile(true)
	file.Storage = domain.StorageLocal

	d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(file, nil)
	d.local.On("Open", mock.Anything, file.FilePath).Return(nil, e.ErrLocalFileNotFound)

	_, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, ""))

	assert.ErrorIs(t, err, e.ErrLocalFileNotFound)
}

func TestDownload_OutboxFailureDoesNotBlock(t *testing.T) {
	uc, d := newDownloadUC(t, fullSettings)

	d.products.On("GetBySlug", mock.Anything, "go-book").Return(ebook(), nil)
	d.files.On("GetByID", mock.Anything, int64(3)).Return(ebookFile(true), nil)
	d.signer.On("PresignGet", mock.Anything, mock.Anything).Return("https://signed.example/x", nil)
	d.outbox.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	res, err := uc.Download(context.Background(), NewDownloadReq("go-book", 3, ""))

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/x", res.URL)
}

func TestGuessContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", GuessContentType("product/a/1book.pdf"))
	assert.Equal(t, "image/png", GuessContentType("cover.PNG"))
	assert.Equal(t, ForceDownloadContentType, GuessContentType("product/a/1archive.unknownext"))
	assert.Equal(t, ForceDownloadContentType, GuessContentType("product/a/1noext"))
}

func TestProtectedKey(t *testing.T) {
	assert.Equal(t, "protected/product/a/1x.zip", ProtectedKey("", "product/a/1x.zip"))
	assert.Equal(t, "protected/product/a/1x.zip", ProtectedKey("protected", "/product/a/1x.zip"))
	assert.Equal(t, "vault/files/product/a/1x.zip", ProtectedKey("/vault/files/", "product/a/1x.zip"))
}

func TestAttachmentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Go Book.pdf"`, AttachmentDisposition("Go Book.pdf"))
	assert.Equal(t, `attachment; filename="say \"hi\".txt"`, AttachmentDisposition(`say "hi".txt`))
	assert.Equal(t, `attachment; filename="a\\b.txt"`, AttachmentDisposition(`a\b.txt`))
	assert.Equal(t, `attachment; filename*=utf-8''%D0%BA%D0%BD%D0%B8%D0%B3%D0%B0.pdf`, AttachmentDisposition("книга.pdf"))

	_, params, err := mime.ParseMediaType(AttachmentDisposition(`in\"side.pdf`))
	require.NoError(t, err)
	assert.Equal(t, `in\"side.pdf`, params["filename"])
}
