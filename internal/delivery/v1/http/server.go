package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
)

const (
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 64 << 10
)

type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			// загрузка файлов товара читает тело дольше заголовков
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// Run слушает адрес из конфигурации.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Serve принимает соединения на готовом listener.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
