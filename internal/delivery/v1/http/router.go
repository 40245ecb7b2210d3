package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/storefront/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// UseCases — зависимости обработчиков API.
type UseCases struct {
	Product     usecase.ProductUC
	ProductFile usecase.ProductFileUC
	Download    usecase.DownloadUC
	Contact     usecase.ContactUC
}

func (r *Router) Init(uc UseCases, allowedOrigins []string) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Recoverer)
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", userIDHeader},
		MaxAge:         300,
	}))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Get("/product_not_found/", productNotFound)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(uc.Product, uc.ProductFile, r.logger)
		fileHandler := NewProductFileHandler(uc.ProductFile, uc.Download, r.logger)
		registerProductRoutes(v1, prHandler, fileHandler)

		contactHandler := NewContactHandler(uc.Contact, r.logger)
		v1.Post("/contact", contactHandler.submit)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, fileHandler *ProductFileHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.listProducts)

		pr.Route("/{slug}", func(item chi.Router) {
			item.Get("/", prHandler.getProduct)
			item.Post("/files", fileHandler.addFile)
			item.Get("/files", fileHandler.listFiles)
			item.Get("/files/{id}/download", fileHandler.download)
		})
	})
}

// requestLogger пишет строку лога на каждый запрос.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %dB %s request_id=%s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}
