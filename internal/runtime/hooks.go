package runtime

import (
	"context"
	"time"

	"github.com/aretw0/autotutor/pkg/domain"
)

func (e *Engine) emitNodeEnter(ctx context.Context, node domain.Node) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeEnter},
		NodeID:    node.ID,
		Kind:      node.Kind,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, node domain.Node) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeLeave},
		NodeID:    node.ID,
		Kind:      node.Kind,
	})
}

func (e *Engine) emitChoice(ctx context.Context, nodeID string, index int, target string) {
	if e.hooks.OnChoice == nil {
		return
	}
	e.hooks.OnChoice(ctx, &domain.ChoiceEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventChoice},
		NodeID:    nodeID,
		Index:     index,
		Target:    target,
	})
}

func (e *Engine) emitTerminate(ctx context.Context, node domain.Node) {
	if e.hooks.OnTerminate == nil {
		return
	}
	e.hooks.OnTerminate(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTerminate},
		NodeID:    node.ID,
		Kind:      node.Kind,
	})
}
