package realtime

import (
	"context"
	"log/slog"

	"versefeed/contract"
	"versefeed/observability"
)

// Router implements deliver-if-online. Durability lives in the store, not
// in the live channel, so a failed or skipped push is never propagated to
// the caller; it is only counted so operators can spot abnormal rates.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	stats    *observability.DeliveryStats
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, stats *observability.DeliveryStats) *Router {
	return &Router{log: log, registry: registry, stats: stats}
}

// Route pushes frame to userID's live socket if one is bound, otherwise
// does nothing. Fire and forget: no queuing, no retry, never raises.
func (r *Router) Route(ctx context.Context, userID int64, frame any) {
	w, ok := r.registry.Lookup(userID)
	if !ok {
		r.stats.IncrReceiverOffline()
		return
	}
	if err := w.WriteFrame(ctx, frame); err != nil {
		r.stats.IncrDeliveryFailure()
		r.log.Warn("Live delivery failed, message stays store-only",
			"user_id", userID,
			"error", err)
		return
	}
	r.stats.IncrDeliveredLive()
}
