// Package dialog resolves the configuration of a skill test from defaults,
// caller fields, user entry and the scripts attached to the entities involved.
//
// A Dialog is single-threaded: callers serialize access to it. Every Render
// is a full recomputation pass; user entry and manual script overrides are
// the only state that survives between passes.
package dialog

import (
	"context"
	"log"
	"time"

	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// Tooltip labels for the composition brackets
const (
	LabelInitial   = "Initial"
	LabelUserEntry = "User Entry"
)

// Extension lets a specialised test add field relationships and extra
// template data on top of the generic dialog
type Extension interface {
	// ComputeFields runs after scripts and before the advantage state is resolved
	ComputeFields(ctx context.Context, d *Dialog) error
	// TemplateFields is attached to the snapshot as SubTemplate
	TemplateFields(d *Dialog) map[string]any
}

// Options configure a dialog beyond its request
type Options struct {
	ID    string
	Actor *Actor
	// RollMode is the default roll mode for this user
	RollMode RollMode
	// InitialTooltip replaces the "Initial" bracket label
	InitialTooltip string
	// Scripts are appended after the request's scripts
	Scripts   []Script
	Extension Extension
	// Now is used to stamp results; defaults to time.Now
	Now func() time.Time
}

// Dialog is one in-progress test configuration
type Dialog struct {
	id           string
	data         Data
	actor        *Actor
	rollMode     RollMode
	initialLabel string
	extension    Extension
	now          func() time.Time

	initialFields Fields
	fields        Fields
	userEntry     Fields

	advantage    int
	disadvantage int
	forcedState  State
	state        State
	aborted      bool
	flags        map[string]any

	scripts   []Script
	states    []ScriptState
	overrides *Overrides
	ledger    *Ledger

	dirty      bool
	closed     bool
	finalized  bool
	onClose    []func()
	submission *Submission
}

// New creates a dialog from a request. The caller's fields are merged onto
// the hard defaults once; the result never changes afterwards.
func New(req *Request, opts Options) *Dialog {
	if req == nil {
		req = &Request{}
	}

	rollMode := opts.RollMode
	if rollMode == "" {
		rollMode = DefaultRollMode
	}

	initialLabel := opts.InitialTooltip
	if initialLabel == "" {
		initialLabel = LabelInitial
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	d := &Dialog{
		id:           opts.ID,
		data:         req.Data,
		actor:        opts.Actor,
		rollMode:     rollMode,
		initialLabel: initialLabel,
		extension:    opts.Extension,
		now:          now,
		fields:       DefaultFields(rollMode),
		userEntry:    Fields{},
		flags:        make(map[string]any),
		overrides:    NewOverrides(),
		ledger:       NewLedger(),
		dirty:        true,
		state:        StateNone,
		submission:   NewSubmission(),
	}

	d.initialFields = DefaultFields(rollMode)
	d.initialFields.Merge(req.Fields)

	d.data.Context = req.Data.Context.clone()
	d.data.Targets = append([]Target(nil), req.Data.Targets...)
	d.data.Scripts = nil
	d.scripts = append(CloneScripts(req.Data.Scripts), opts.Scripts...)
	d.states = make([]ScriptState, len(d.scripts))

	return d
}

// Render runs a full recomputation pass and returns its snapshot. When a
// collaborator aborted the dialog during the pass the dialog is closed
// without a result and the snapshot is marked Closed.
func (d *Dialog) Render(ctx context.Context) (*Snapshot, error) {
	if d.closed {
		return nil, ErrClosed
	}

	d.pass(ctx)
	snap := d.snapshot()

	if d.aborted {
		log.Printf("TestDialog: dialog %s aborted during pass", d.id)
		d.abandon()
		snap.Closed = true
	}

	return snap, nil
}

// Input records a value entered by the user and re-renders. Numbers are
// added to the composed field, strings and booleans replace it. Entering
// the state field also forces the advantage state; an empty state clears it.
func (d *Dialog) Input(ctx context.Context, name string, value any) (*Snapshot, error) {
	if d.closed {
		return nil, ErrClosed
	}

	if v, ok := d.acceptEntry(name, value); ok {
		d.userEntry[name] = v
		if name == FieldState {
			d.forcedState = State(v.(string))
			if d.forcedState == StateUnset {
				delete(d.userEntry, name)
			}
		}
		d.dirty = true
	} else {
		log.Printf("TestDialog: ignoring entry %s=%v", name, value)
	}

	return d.Render(ctx)
}

// AdjustEntry adds delta to the user's numeric entry for name and
// re-renders, so repeated clicks stack
func (d *Dialog) AdjustEntry(ctx context.Context, name string, delta int) (*Snapshot, error) {
	if d.closed {
		return nil, ErrClosed
	}

	current, ok := d.userEntry[name].(int)
	if !ok {
		current = 0
	}
	d.userEntry[name] = current + delta
	d.dirty = true

	return d.Render(ctx)
}

// ToggleScript applies a user click on the script at index and re-renders
func (d *Dialog) ToggleScript(ctx context.Context, index int) (*Snapshot, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= len(d.scripts) {
		return nil, dnderr.Wrapf(ErrScriptIndex, "failed to toggle script %d", index).
			WithMeta("dialog_id", d.id).
			WithMeta("script_count", len(d.scripts))
	}

	if d.dirty {
		snap, err := d.Render(ctx)
		if err != nil {
			return nil, err
		}
		if snap.Closed {
			return snap, nil
		}
	}

	d.overrides.Toggle(index, d.states[index].Active)
	d.dirty = true

	return d.Render(ctx)
}

// SetTargets replaces the dialog's targets; the next pass sees them
func (d *Dialog) SetTargets(targets []Target) {
	d.data.Targets = append([]Target(nil), targets...)
	d.dirty = true
}

// Submit finalizes the dialog on user request and delivers the result
func (d *Dialog) Submit(ctx context.Context) (*Result, error) {
	return d.finalize(ctx)
}

// Bypass finalizes the dialog without any user interaction
func (d *Dialog) Bypass(ctx context.Context) (*Result, error) {
	d.dirty = true
	return d.finalize(ctx)
}

// Cancel closes the dialog without delivering a result
func (d *Dialog) Cancel() {
	if d.closed {
		return
	}
	d.abandon()
}

// OnClose registers fn to run when the dialog closes for any reason
func (d *Dialog) OnClose(fn func()) {
	if d.closed {
		fn()
		return
	}
	d.onClose = append(d.onClose, fn)
}

func (d *Dialog) pass(ctx context.Context) {
	d.ledger.Clear()
	d.flags = make(map[string]any)
	d.fields = DefaultFields(d.rollMode)
	d.advantage = 0
	d.disadvantage = 0

	d.ledger.Start(d)
	d.fields.Merge(d.initialFields)
	d.ledger.Finish(d, d.initialLabel)

	d.ledger.Start(d)
	for _, key := range d.userEntry.Keys() {
		if !d.fields.ApplyEntry(key, d.userEntry[key]) {
			log.Printf("TestDialog: entry %s=%v does not fit field %v", key, d.userEntry[key], d.fields[key])
		}
	}
	d.ledger.Finish(d, LabelUserEntry)

	d.states = make([]ScriptState, len(d.scripts))
	d.hideScripts(ctx)
	d.activateScripts(ctx)
	d.computeScripts(ctx)
	d.computeFields(ctx)

	d.state = d.computeState()
	d.fields[FieldState] = string(d.state)
	d.dirty = false
}

func (d *Dialog) hideScripts(ctx context.Context) {
	for i, script := range d.scripts {
		// A script the user picked is never hidden
		if d.overrides.IsSelected(i) {
			d.states[i].Hidden = false
			continue
		}

		hidden, err := runTest(ctx, d, script.Hidden)
		if err != nil {
			logScriptFailure(i, script, hookHidden, err)
			d.states[i].Failed = true
			continue
		}
		d.states[i].Hidden = hidden
	}
}

func (d *Dialog) activateScripts(ctx context.Context) {
	for i, script := range d.scripts {
		st := &d.states[i]
		switch {
		case d.overrides.IsSelected(i):
			st.Active = true
		case d.overrides.IsDeselected(i):
			st.Active = false
		case st.Failed:
			st.Active = false
		case st.Hidden:
			// Hidden scripts are not tested and stay inactive
		default:
			active, err := runTest(ctx, d, script.Activated)
			if err != nil {
				logScriptFailure(i, script, hookActivation, err)
				st.Failed = true
				st.Active = false
				continue
			}
			st.Active = active
		}
	}
}

func (d *Dialog) computeScripts(ctx context.Context) {
	for i, script := range d.scripts {
		if !d.states[i].Active {
			continue
		}

		fields := d.fields.Clone()
		advantage, disadvantage, aborted := d.advantage, d.disadvantage, d.aborted

		d.ledger.Start(d)
		if err := runAction(ctx, d, script.Effect); err != nil {
			logScriptFailure(i, script, hookEffect, err)
			d.fields = fields
			d.advantage, d.disadvantage, d.aborted = advantage, disadvantage, aborted
			d.states[i].Active = false
			d.states[i].Failed = true
		}
		d.ledger.Finish(d, script.Label)
	}
}

func (d *Dialog) computeFields(ctx context.Context) {
	if d.extension == nil {
		return
	}
	if err := d.extension.ComputeFields(ctx, d); err != nil {
		log.Printf("TestDialog: dialog %s failed to compute fields: %v", d.id, err)
	}
}

func (d *Dialog) computeState() State {
	state, delta := ResolveState(d.forcedState, d.advantage, d.disadvantage)
	if delta == 0 {
		return state
	}

	label := LabelExcessAdvantage
	if state == StateDisadvantage {
		label = LabelExcessDisadvantage
	}

	d.ledger.Start(d)
	d.fields[FieldModifier] = d.fields.Int(FieldModifier) + delta
	d.ledger.Finish(d, label)

	return state
}

func (d *Dialog) finalize(ctx context.Context) (*Result, error) {
	if d.finalized {
		return nil, ErrAlreadyFinalized
	}
	if d.closed {
		return nil, ErrClosed
	}

	if d.dirty {
		d.pass(ctx)
	}
	if d.aborted {
		log.Printf("TestDialog: dialog %s aborted before submission", d.id)
		d.abandon()
		return nil, ErrAborted
	}

	result := &Result{
		ID:         d.id,
		Title:      d.data.Title,
		Subject:    d.data.Subject,
		Targets:    append([]Target(nil), d.data.Targets...),
		Fields:     d.fields.Clone(),
		State:      d.state,
		ResolvedAt: d.now(),
	}
	if d.data.Speaker != nil {
		speaker := *d.data.Speaker
		result.Speaker = &speaker
	}
	breakdown := d.ledger.Breakdown()

	for i, script := range d.scripts {
		if !d.states[i].Active {
			continue
		}
		result.ActiveScripts = append(result.ActiveScripts, script.Label)
		if err := runAction(ctx, d, script.Submission); err != nil {
			logScriptFailure(i, script, hookSubmission, err)
		}
	}

	// Submission hooks may still add tags and text
	result.Context = d.data.Context.clone()
	result.Context.Breakdown = breakdown

	d.finalized = true
	d.submission.deliver(result)
	d.close()

	return result, nil
}

func (d *Dialog) abandon() {
	d.submission.abandon()
	d.close()
}

func (d *Dialog) close() {
	if d.closed {
		return
	}
	d.closed = true

	hooks := d.onClose
	d.onClose = nil
	for _, fn := range hooks {
		fn()
	}
}

func (d *Dialog) snapshot() *Snapshot {
	views := make([]ScriptView, len(d.scripts))
	for i, script := range d.scripts {
		st := d.states[i]
		views[i] = ScriptView{
			Index:      i,
			Key:        script.Key,
			Label:      script.Label,
			Hidden:     st.Hidden,
			Active:     st.Active,
			Failed:     st.Failed,
			Selected:   d.overrides.IsSelected(i),
			Deselected: d.overrides.IsDeselected(i),
		}
	}

	snap := &Snapshot{
		ID:           d.id,
		Title:        d.data.Title,
		Subject:      d.data.Subject,
		Fields:       d.fields.Clone(),
		State:        d.state,
		ForcedState:  d.forcedState,
		Scripts:      views,
		Advantage:    d.advantage,
		Disadvantage: d.disadvantage,
		Tooltips:     d.ledger.Entries(),
		Breakdown:    d.ledger.Breakdown(),
		Targets:      append([]Target(nil), d.data.Targets...),
	}
	if d.extension != nil {
		snap.SubTemplate = d.extension.TemplateFields(d)
	}
	return snap
}

func (d *Dialog) acceptEntry(name string, value any) (any, bool) {
	if name == "" {
		return nil, false
	}
	v, ok := Normalize(value)
	if !ok {
		return nil, false
	}
	if name == FieldState {
		s, isString := v.(string)
		if !isString || !State(s).IsValid() {
			return nil, false
		}
	}
	if _, numeric := DefaultFields(d.rollMode)[name].(int); numeric {
		if _, isInt := v.(int); !isInt {
			return nil, false
		}
	}
	return v, true
}
