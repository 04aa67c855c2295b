package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const backgroundTimeout = 30 * time.Second

// background runs fire-and-forget jobs that must still finish before the
// process exits.
type background struct {
	wg  sync.WaitGroup
	log *zap.Logger
}

func newBackground(log *zap.Logger) *background {
	return &background{log: log}
}

// Go runs fn on its own goroutine with a fresh context bounded by
// backgroundTimeout. Errors are logged under name.
func (b *background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("Background job panicked", zap.String("job", name), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			b.log.Error("Background job failed", zap.String("job", name), zap.Error(err))
		}
	}()
}

func (b *background) Wait() {
	b.wg.Wait()
}
