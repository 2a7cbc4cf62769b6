package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
)

// Dispatcher runs handlers in background goroutines detached from the request
// context, keeping only its logger. Wait blocks until every dispatched handler
// returned, which lets servers drain pending work on shutdown.
type Dispatcher struct {
	wg sync.WaitGroup
}

// Dispatch executes handler asynchronously. Errors and panics are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}

// Wait blocks until all dispatched handlers finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
