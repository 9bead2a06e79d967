package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/autotutor/pkg/domain"
)

// LoggingHooks logs every engine event at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("node_enter", "node_id", e.NodeID, "kind", e.Kind)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("node_leave", "node_id", e.NodeID)
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			logger.Debug("choice", "node_id", e.NodeID, "index", e.Index, "target", e.Target)
		},
		OnTerminate: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("terminate", "node_id", e.NodeID)
		},
	}
}

// Combine fans each event out to every set of hooks, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			for _, h := range all {
				if h.OnNodeEnter != nil {
					h.OnNodeEnter(ctx, e)
				}
			}
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			for _, h := range all {
				if h.OnNodeLeave != nil {
					h.OnNodeLeave(ctx, e)
				}
			}
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			for _, h := range all {
				if h.OnChoice != nil {
					h.OnChoice(ctx, e)
				}
			}
		},
		OnTerminate: func(ctx context.Context, e *domain.NodeEvent) {
			for _, h := range all {
				if h.OnTerminate != nil {
					h.OnTerminate(ctx, e)
				}
			}
		},
	}
}
