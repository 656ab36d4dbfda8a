// Package di provides dependency injection configuration for the library front end.
package di

import (
	"github.com/samber/do/v2"

	"github.com/librarydb/library-web/internal/config"
	"github.com/librarydb/library-web/internal/di/providers"
	"github.com/librarydb/library-web/internal/logger"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Notices
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideNoticeCenter)

	// Backend
	do.Provide(injector, providers.ProvideAPIClient)
	do.Provide(injector, providers.ProvideValidator)

	// Page workflows
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideReaderService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*notify.Center](injector)
	if _, err := do.Invoke[*providers.APIClientHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*validation.Validator](injector)

	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.LoanService](injector)
	_ = do.MustInvoke[*service.ReaderService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
