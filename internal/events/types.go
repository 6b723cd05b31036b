package events

import (
	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

// EventType represents the type of dialog event
type EventType string

// Event is the base interface for all dialog events
type Event interface {
	GetType() EventType
	GetDialogID() string
	GetActor() *dialog.Actor
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	DialogID  string
	Actor     *dialog.Actor
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType      { return e.Type }
func (e *BaseEvent) GetDialogID() string     { return e.DialogID }
func (e *BaseEvent) GetActor() *dialog.Actor { return e.Actor }
func (e *BaseEvent) IsCancelled() bool       { return e.Cancelled }
func (e *BaseEvent) Cancel()                 { e.Cancelled = true }

// DialogCreatedEvent carries the new dialog. Listeners run before the first
// render and may adjust it, for example by replacing its targets.
type DialogCreatedEvent struct {
	BaseEvent
	Dialog *dialog.Dialog
}

// DialogRenderedEvent carries the snapshot of a completed pass
type DialogRenderedEvent struct {
	BaseEvent
	Snapshot *dialog.Snapshot
}

// DialogSubmittedEvent carries the delivered result
type DialogSubmittedEvent struct {
	BaseEvent
	Result *dialog.Result
}

// DialogClosedEvent reports how a dialog ended
type DialogClosedEvent struct {
	BaseEvent
	Outcome dialog.Outcome
}

// NewDialogCreatedEvent creates a created event for d
func NewDialogCreatedEvent(d *dialog.Dialog) *DialogCreatedEvent {
	return &DialogCreatedEvent{
		BaseEvent: BaseEvent{Type: EventTypeDialogCreated, DialogID: d.ID(), Actor: d.Actor()},
		Dialog:    d,
	}
}

// NewDialogRenderedEvent creates a rendered event for a snapshot of d
func NewDialogRenderedEvent(d *dialog.Dialog, snap *dialog.Snapshot) *DialogRenderedEvent {
	return &DialogRenderedEvent{
		BaseEvent: BaseEvent{Type: EventTypeDialogRendered, DialogID: d.ID(), Actor: d.Actor()},
		Snapshot:  snap,
	}
}

// NewDialogSubmittedEvent creates a submitted event for the result of d
func NewDialogSubmittedEvent(d *dialog.Dialog, result *dialog.Result) *DialogSubmittedEvent {
	return &DialogSubmittedEvent{
		BaseEvent: BaseEvent{Type: EventTypeDialogSubmitted, DialogID: d.ID(), Actor: d.Actor()},
		Result:    result,
	}
}

// NewDialogClosedEvent creates a closed event for d
func NewDialogClosedEvent(d *dialog.Dialog) *DialogClosedEvent {
	return &DialogClosedEvent{
		BaseEvent: BaseEvent{Type: EventTypeDialogClosed, DialogID: d.ID(), Actor: d.Actor()},
		Outcome:   d.Submission().Outcome(),
	}
}
