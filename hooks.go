package confkit

import (
	"context"
	gosync "sync"

	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/sync"
)

// Hook function types for catalogue events
type (
	// DocumentChangedHook is called after a document is created, updated or deleted
	DocumentChangedHook func(ctx context.Context, change catalog.Change)

	// SyncedHook is called after a successful synchronization run
	SyncedHook func(ctx context.Context, result *sync.Result)
)

// Hooks registers callbacks for catalogue events.
type Hooks interface {
	OnDocumentChanged(fn DocumentChangedHook)
	OnSynced(fn SyncedHook)
}

// hooks manages event callbacks
type hooks struct {
	mu                gosync.RWMutex
	onDocumentChanged []DocumentChangedHook
	onSynced          []SyncedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnDocumentChanged registers a callback for document changes
func (h *hooks) OnDocumentChanged(fn DocumentChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDocumentChanged = append(h.onDocumentChanged, fn)
}

// OnSynced registers a callback for completed synchronizations
func (h *hooks) OnSynced(fn SyncedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSynced = append(h.onSynced, fn)
}

func (h *hooks) triggerDocumentChanged(ctx context.Context, change catalog.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onDocumentChanged {
		fn(ctx, change)
	}
}

func (h *hooks) triggerSynced(ctx context.Context, result *sync.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSynced {
		fn(ctx, result)
	}
}
