package dialog

import (
	"context"
	"fmt"
	"log"
)

// HookFunc is a yes/no test evaluated against the dialog
type HookFunc func(ctx context.Context, d *Dialog) (bool, error)

// ActionFunc is a side-effecting hook run against the dialog
type ActionFunc func(ctx context.Context, d *Dialog) error

// Script is one pluggable rule attached to a dialog. A nil test hook means
// "false" and a nil action hook is a no-op.
type Script struct {
	// Key identifies the script within its source
	Key string
	// Label is shown to the user and used as the tooltip label
	Label string
	// SourceID is the entity the script was collected from
	SourceID string
	// Targeter scripts apply to tests made against their owner
	Targeter bool

	Hidden     HookFunc
	Activated  HookFunc
	Effect     ActionFunc
	Submission ActionFunc
}

// ScriptState is the pass-scoped state of a script, keyed by its index
type ScriptState struct {
	Hidden bool
	Active bool
	// Failed is set when any hook errored during the pass
	Failed bool
}

// Hook names used in logs and errors
const (
	hookHidden     = "hidden"
	hookActivation = "activation"
	hookEffect     = "effect"
	hookSubmission = "submission"
)

// CloneScripts copies a script list so per-dialog slices never alias
func CloneScripts(scripts []Script) []Script {
	if len(scripts) == 0 {
		return nil
	}
	return append([]Script(nil), scripts...)
}

func runTest(ctx context.Context, d *Dialog, hook HookFunc) (result bool, err error) {
	if hook == nil {
		return false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			result = false
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook(ctx, d)
}

func runAction(ctx context.Context, d *Dialog, hook ActionFunc) (err error) {
	if hook == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook(ctx, d)
}

func logScriptFailure(index int, script Script, hook string, err error) {
	log.Printf("TestDialog: script %d (%s) %s hook failed: %v", index, script.Label, hook, err)
}
