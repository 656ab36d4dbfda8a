package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/apiclient/apitest"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/validation"
)

type notice struct {
	Message  string
	Severity notify.Severity
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recordingNotifier) Notify(_ context.Context, message string, severity notify.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{Message: message, Severity: severity})
}

func (r *recordingNotifier) all() []notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notice(nil), r.notices...)
}

func (r *recordingNotifier) last() notice {
	all := r.all()
	if len(all) == 0 {
		return notice{}
	}
	return all[len(all)-1]
}

type testEnv struct {
	backend  *apitest.Backend
	client   *apiclient.Client
	notifier *recordingNotifier
	catalog  *CatalogService
	books    *BookService
	loans    *LoanService
	readers  *ReaderService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := apitest.New(t)
	client, err := apiclient.New(apiclient.Config{BaseURL: backend.URL(), Timeout: 2 * time.Second}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return newEnvWithAPI(backend, client)
}

func newEnvWithAPI(backend *apitest.Backend, client *apiclient.Client) *testEnv {
	v := validation.New()
	n := &recordingNotifier{}
	logger := discardLogger()

	return &testEnv{
		backend:  backend,
		client:   client,
		notifier: n,
		catalog:  NewCatalogService(client, logger),
		books:    NewBookService(client, v, n, logger),
		loans:    NewLoanService(client, v, n, logger),
		readers:  NewReaderService(client, v, n, logger),
	}
}

// unreachableEnv returns services whose backend is not listening.
func unreachableEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := apitest.New(t)
	url := backend.URL()
	backend.Server.Close()

	client, err := apiclient.New(apiclient.Config{BaseURL: url, Timeout: time.Second}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return newEnvWithAPI(nil, client)
}
