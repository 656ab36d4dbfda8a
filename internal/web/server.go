// Package web provides the HTTP server and page handlers of the library front end.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/ratelimit"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/sse"
	"github.com/librarydb/library-web/internal/ui"
)

// Services bundles the page workflows the handlers call.
type Services struct {
	Catalog *service.CatalogService
	Books   *service.BookService
	Loans   *service.LoanService
	Readers *service.ReaderService
}

// Config holds the server options that shape routing and protection.
type Config struct {
	// AllowedOrigins may call the notice endpoints cross-origin.
	AllowedOrigins []string
	// FormRatePerMinute and FormBurst bound POSTs per client IP.
	FormRatePerMinute int
	FormBurst         int
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg         Config
	services    Services
	notices     *notify.Center
	sseHandler  *sse.Handler
	dispatcher  *ui.Dispatcher
	formLimiter *ratelimit.KeyedRateLimiter
	renderer    *renderer
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config, services Services, notices *notify.Center, sseHandler *sse.Handler, logger *slog.Logger) (*Server, error) {
	rend, err := newRenderer()
	if err != nil {
		return nil, err
	}

	if cfg.FormRatePerMinute <= 0 {
		cfg.FormRatePerMinute = 60
	}
	if cfg.FormBurst <= 0 {
		cfg.FormBurst = 10
	}

	s := &Server{
		cfg:         cfg,
		services:    services,
		notices:     notices,
		sseHandler:  sseHandler,
		dispatcher:  ui.NewDispatcher(ui.BookPage(), ui.DefaultBindings(), logger),
		formLimiter: ratelimit.New(ratelimit.PerMinute(cfg.FormRatePerMinute), cfg.FormBurst),
		renderer:    rend,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases resources held by the server.
func (s *Server) Close() {
	s.formLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.session)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFiles())))

	// Pages.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		r.Get("/", s.handleListTable)
		r.Get("/books", s.handleListSimple)
		r.Get("/book/{id}", s.handleBookDetail)
		r.Get("/book/{id}/prompt", s.handleLoanPrompt)
		r.Get("/add-book", s.handleAddBookForm)
		r.Get("/signup", s.handleSignupForm)

		// Form submissions.
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitForms)
			r.Post("/book/{id}/loan", s.handleLoanSubmit)
			r.Post("/book/{id}/prompt", s.handleLoanPromptSubmit)
			r.Post("/add-book", s.handleAddBookSubmit)
			r.Post("/signup", s.handleSignupSubmit)
		})
	})

	// Notice endpoints, also used by scripts from other allowed origins.
	corsOptions := cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		// An empty list would allow every origin; keep it same-origin instead.
		corsOptions.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}

	s.router.Route("/notices", func(r chi.Router) {
		r.Use(cors.Handler(corsOptions))

		r.Get("/", s.handleListNotices)
		r.Get("/stream", s.sseHandler.ServeHTTP)
		r.With(s.rateLimitForms).Post("/{id}/dismiss", s.handleDismissNotice)
	})
}
