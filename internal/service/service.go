package service

import (
	"context"
	"time"

	"github.com/lshigami/quizzer/config"
)

const (
	defaultQueryTimeout = 5 * time.Second
	// Cache calls get their own deadline, separate from the query budget.
	cacheTimeout = 200 * time.Millisecond
)

// opTimeout bounds every storage round trip of one public operation.
type opTimeout time.Duration

func timeoutFrom(cfg *config.Config) opTimeout {
	if cfg == nil || cfg.Database.QueryTimeout <= 0 {
		return opTimeout(defaultQueryTimeout)
	}
	return opTimeout(cfg.Database.QueryTimeout)
}

func (t opTimeout) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(t))
}

func cacheBound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cacheTimeout)
}
