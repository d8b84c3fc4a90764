package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDocumentLoad EventType = "document_load"
	EventDocumentSave EventType = "document_save"
	EventCloneFinish  EventType = "clone_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	OperationID string    `json:"operation_id"`
}

// DocumentEvent reports a document read or write.
type DocumentEvent struct {
	EventBase
	Path    string `json:"path"`
	Format  string `json:"format"`
	Records int    `json:"records"`
	Err     error  `json:"-"`
}

// CloneEvent reports the end of a clone operation.
type CloneEvent struct {
	EventBase
	Result *Result `json:"result"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDocumentLoad func(context.Context, *DocumentEvent)
	OnDocumentSave func(context.Context, *DocumentEvent)
	OnCloneFinish  func(context.Context, *CloneEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDocumentLoad: chain(h.OnDocumentLoad, other.OnDocumentLoad),
		OnDocumentSave: chain(h.OnDocumentSave, other.OnDocumentSave),
		OnCloneFinish:  chain(h.OnCloneFinish, other.OnCloneFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
