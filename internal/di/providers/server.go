package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/librarydb/library-web/internal/config"
	"github.com/librarydb/library-web/internal/logger"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/sse"
	"github.com/librarydb/library-web/internal/web"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *web.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	notices := do.MustInvoke[*notify.Center](i)

	services := web.Services{
		Catalog: do.MustInvoke[*service.CatalogService](i),
		Books:   do.MustInvoke[*service.BookService](i),
		Loans:   do.MustInvoke[*service.LoanService](i),
		Readers: do.MustInvoke[*service.ReaderService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Component("sse"))

	handler, err := web.NewServer(web.Config{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		FormRatePerMinute: cfg.Server.FormRatePerMinute,
		FormBurst:         cfg.Server.FormBurst,
		SecureCookies:     cfg.App.Environment == "production",
	}, services, notices, sseHandler, log.Logger)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
