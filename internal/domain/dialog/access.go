package dialog

// Accessors used by scripts and collaborators. None of them run a pass.

func (d *Dialog) ID() string        { return d.id }
func (d *Dialog) Title() string     { return d.data.Title }
func (d *Dialog) Subject() string   { return d.data.Subject }
func (d *Dialog) Actor() *Actor     { return d.actor }
func (d *Dialog) State() State      { return d.state }
func (d *Dialog) Closed() bool      { return d.closed }
func (d *Dialog) Finalized() bool   { return d.finalized }
func (d *Dialog) Aborted() bool     { return d.aborted }
func (d *Dialog) Advantage() int    { return d.advantage }
func (d *Dialog) Disadvantage() int { return d.disadvantage }

// Speaker returns the stored reference to the acting entity
func (d *Dialog) Speaker() *Speaker { return d.data.Speaker }

// Submission returns the dialog's one-shot result slot
func (d *Dialog) Submission() *Submission { return d.submission }

// Context returns the live context; scripts may add tags and text to it
func (d *Dialog) Context() *Context { return &d.data.Context }

// Fields returns the live working fields of the current pass
func (d *Dialog) Fields() Fields { return d.fields }

// Field returns a single working field value
func (d *Dialog) Field(key string) any { return d.fields[key] }

// Flags is scratch space for scripts, cleared at the start of every pass
func (d *Dialog) Flags() map[string]any { return d.flags }

// ForcedState returns the user's forced advantage state, or StateUnset
func (d *Dialog) ForcedState() State { return d.forcedState }

// SetField sets a working field. It reports false for unsupported values.
func (d *Dialog) SetField(key string, value any) bool {
	v, ok := Normalize(value)
	if !ok {
		return false
	}
	d.fields[key] = v
	return true
}

// AddField adds delta to a numeric working field
func (d *Dialog) AddField(key string, delta int) bool {
	return d.fields.ApplyEntry(key, delta)
}

// AddAdvantage adds n sources of advantage. Counters only grow within a pass.
func (d *Dialog) AddAdvantage(n int) {
	if n > 0 {
		d.advantage += n
	}
}

// AddDisadvantage adds n sources of disadvantage
func (d *Dialog) AddDisadvantage(n int) {
	if n > 0 {
		d.disadvantage += n
	}
}

// Abort asks for the dialog to close at the end of the current pass
func (d *Dialog) Abort() { d.aborted = true }

// Targets returns a copy of the current targets
func (d *Dialog) Targets() []Target {
	return append([]Target(nil), d.data.Targets...)
}

// InitialFields returns a copy of the fields computed at construction
func (d *Dialog) InitialFields() Fields { return d.initialFields.Clone() }

// UserEntry returns a copy of the user's entries
func (d *Dialog) UserEntry() Fields { return d.userEntry.Clone() }

// Scripts returns a copy of the dialog's scripts in index order
func (d *Dialog) Scripts() []Script { return CloneScripts(d.scripts) }

// ScriptStates returns a copy of the pass-scoped script states
func (d *Dialog) ScriptStates() []ScriptState {
	return append([]ScriptState(nil), d.states...)
}

// Breakdown returns the audit lines of the last pass
func (d *Dialog) Breakdown() []string { return d.ledger.Breakdown() }

// TrackedValues implements TrackedSource over the working fields and counters
func (d *Dialog) TrackedValues() map[string]any {
	values := make(map[string]any, len(d.fields)+2)
	for k, v := range d.fields {
		values[k] = v
	}
	values[TrackedAdvantage] = d.advantage
	values[TrackedDisadvantage] = d.disadvantage
	return values
}
