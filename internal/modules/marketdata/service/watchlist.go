package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type volatileSource interface {
	TopVolatile(ctx context.Context, n int) ([]string, error)
}

// Watchlist — символы для батча: из конфига или топ волатильных с OKX.
type Watchlist struct {
	static []string
	topN   int
	src    volatileSource
	log    *zap.Logger

	mu   sync.Mutex
	last []string
}

func NewWatchlist(static []string, topN int, src volatileSource, log *zap.Logger) *Watchlist {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watchlist{static: static, topN: topN, src: src, log: log}
}

// Symbols не падает: при ошибке OKX отдаёт прошлый удачный список.
func (w *Watchlist) Symbols(ctx context.Context) []string {
	if len(w.static) > 0 {
		return w.static
	}
	syms, err := w.src.TopVolatile(ctx, w.topN)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil || len(syms) == 0 {
		w.log.Warn("watchlist refresh failed, keeping previous",
			zap.Error(err), zap.Int("previous", len(w.last)))
		return w.last
	}
	w.last = syms
	return syms
}
