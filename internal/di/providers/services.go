package providers

import (
	"github.com/samber/do/v2"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/config"
	"github.com/librarydb/library-web/internal/logger"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/service"
	"github.com/librarydb/library-web/internal/validation"
)

// APIClientHandle wraps the backend client with Shutdownable.
type APIClientHandle struct {
	*apiclient.Client
}

// Shutdown implements do.Shutdownable.
func (h *APIClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAPIClient provides the library backend client.
func ProvideAPIClient(i do.Injector) (*APIClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		RPS:     cfg.Backend.RPS,
		Burst:   cfg.Backend.Burst,
	}, log.Component("apiclient"))
	if err != nil {
		return nil, err
	}

	log.Info("Library backend configured", "base_url", client.BaseURL())
	return &APIClientHandle{Client: client}, nil
}

// ProvideValidator provides the form validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideCatalogService provides the book list and detail service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	api := do.MustInvoke[*APIClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(api.Client, log.Component("catalog")), nil
}

// ProvideBookService provides the add-book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	api := do.MustInvoke[*APIClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	notices := do.MustInvoke[*notify.Center](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(api.Client, v, notices, log.Component("books")), nil
}

// ProvideLoanService provides the loan service.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	api := do.MustInvoke[*APIClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	notices := do.MustInvoke[*notify.Center](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(api.Client, v, notices, log.Component("loans")), nil
}

// ProvideReaderService provides the reader signup service.
func ProvideReaderService(i do.Injector) (*service.ReaderService, error) {
	api := do.MustInvoke[*APIClientHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	notices := do.MustInvoke[*notify.Center](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReaderService(api.Client, v, notices, log.Component("readers")), nil
}
