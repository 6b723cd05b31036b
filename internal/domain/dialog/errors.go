package dialog

import (
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

var (
	// ErrAlreadyFinalized is returned when a dialog is submitted twice
	ErrAlreadyFinalized = dnderr.FailedPrecondition("test dialog already submitted")

	// ErrClosed is returned for any interaction with a closed dialog
	ErrClosed = dnderr.FailedPrecondition("test dialog is closed")

	// ErrAborted is returned when a collaborator aborted the dialog during submission
	ErrAborted = dnderr.Aborted("test dialog aborted")

	// ErrScriptIndex is returned for a script index outside the dialog's scripts
	ErrScriptIndex = dnderr.InvalidArgument("script index out of range")
)
