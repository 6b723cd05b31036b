package events

// Event type constants
const (
	// EventTypeDialogCreated fires once per dialog before its first render
	EventTypeDialogCreated EventType = "dialog_created"
	// EventTypeDialogRendered fires after every pass the service runs
	EventTypeDialogRendered EventType = "dialog_rendered"
	// EventTypeDialogSubmitted fires once when a result is delivered
	EventTypeDialogSubmitted EventType = "dialog_submitted"
	// EventTypeDialogClosed fires once when a dialog closes for any reason
	EventTypeDialogClosed EventType = "dialog_closed"
)

// Listener priorities; lower runs first
const (
	PriorityFirst   = 0
	PriorityDefault = 100
	PriorityLast    = 1000
)
