package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IndexRefresher rebuilds cached index pages.
type IndexRefresher interface {
	RefreshIndex(ctx context.Context, pages ...int) error
}

// IndexWarmer keeps the first index pages cached so readers rarely pay for
// a rebuild after the cache entry expires.
type IndexWarmer struct {
	Refresher IndexRefresher
	Pages     int
	Interval  time.Duration
	Logger    *zap.Logger
}

func NewIndexWarmer(refresher IndexRefresher, pages int, interval time.Duration, logger *zap.Logger) *IndexWarmer {
	if pages < 1 {
		pages = 1
	}
	return &IndexWarmer{
		Refresher: refresher,
		Pages:     pages,
		Interval:  interval,
		Logger:    logger,
	}
}

// Run refreshes once immediately and then on every tick until ctx ends.
func (w *IndexWarmer) Run(ctx context.Context) {
	w.Logger.Info("Index warmer started", zap.Int("pages", w.Pages), zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.warm(ctx)
		select {
		case <-ctx.Done():
			w.Logger.Info("Index warmer stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *IndexWarmer) warm(ctx context.Context) {
	pages := make([]int, w.Pages)
	for i := range pages {
		pages[i] = i + 1
	}
	if err := w.Refresher.RefreshIndex(ctx, pages...); err != nil && ctx.Err() == nil {
		w.Logger.Warn("Could not refresh index cache", zap.Error(err))
	}
}
