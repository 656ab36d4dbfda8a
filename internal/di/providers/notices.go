package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/librarydb/library-web/internal/config"
	"github.com/librarydb/library-web/internal/logger"
	"github.com/librarydb/library-web/internal/notify"
	"github.com/librarydb/library-web/internal/sse"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable. Queued notices are drained to the
// open streams before the delivery loop's context is canceled.
func (h *SSEManagerHandle) Shutdown() error {
	defer h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Component("sse"))

	ctx, cancel := context.WithCancel(context.Background())
	manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// ProvideNoticeCenter provides the per-session notice store. New and
// dismissed notices are pushed to the session's open streams.
func ProvideNoticeCenter(i do.Injector) (*notify.Center, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	return notify.NewCenter(cfg.Notice.TTL, sseHandle.Manager, log.Component("notify")), nil
}
