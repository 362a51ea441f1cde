package service

import (
	"context"
	"errors"

	"go-sales-desk/internal/cache"
	"go-sales-desk/internal/events"
	"go-sales-desk/internal/metrics"

	"go.uber.org/zap"
)

var (
	ErrEmptySale         = errors.New("a sale must contain at least one item")
	ErrInvalidStockLevel = errors.New("unknown stock level filter")
)

// Upper bounds for request quantities and amounts, mirrored in the validate tags.
const (
	MaxQuantity = 1_000_000
	MaxAmount   = 100_000_000_000 // cents
)

const (
	defaultHistoryLimit = 100
	systemActor         = "system"
)

// Deps bundles the side channels every service reports to. Zero values are
// replaced with no-op implementations.
type Deps struct {
	Publisher events.Publisher
	Cache     cache.DashboardCache
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Publisher == nil {
		d.Publisher = events.NewMulti(d.Log)
	}
	if d.Cache == nil {
		d.Cache = cache.NewNoop()
	}
	return d
}

// notify publishes after the database work has committed. Failures are
// logged only.
func (d Deps) notify(ctx context.Context, evt events.Event) {
	if err := d.Publisher.Publish(ctx, evt); err != nil {
		d.Log.Warn("failed to publish event", zap.String("type", evt.Type), zap.Error(err))
	}
}

func (d Deps) invalidateDashboard(ctx context.Context) {
	if err := d.Cache.Invalidate(ctx); err != nil {
		d.Log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func actorID(actor *events.Actor) string {
	if actor == nil || actor.ID == "" {
		return systemActor
	}
	return actor.ID
}

func actorName(actor *events.Actor) string {
	if actor == nil || actor.Name == "" {
		return systemActor
	}
	return actor.Name
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	return limit
}
