package dialog

// ScriptView is the presentation of one script after a pass
type ScriptView struct {
	Index      int    `json:"index"`
	Key        string `json:"key"`
	Label      string `json:"label"`
	Hidden     bool   `json:"hidden"`
	Active     bool   `json:"active"`
	Failed     bool   `json:"failed"`
	Selected   bool   `json:"selected"`
	Deselected bool   `json:"deselected"`
}

// Snapshot is the read-only result of a pass, handed to renderers
type Snapshot struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Subject      string         `json:"subject,omitempty"`
	Fields       Fields         `json:"fields"`
	State        State          `json:"state"`
	ForcedState  State          `json:"forced_state,omitempty"`
	Scripts      []ScriptView   `json:"scripts"`
	Advantage    int            `json:"advantage"`
	Disadvantage int            `json:"disadvantage"`
	Tooltips     []TooltipEntry `json:"tooltips"`
	Breakdown    []string       `json:"breakdown"`
	SubTemplate  map[string]any `json:"sub_template,omitempty"`
	Targets      []Target       `json:"targets,omitempty"`
	// Closed is set when the pass ended the dialog
	Closed bool `json:"closed"`
}

// VisibleScripts returns the scripts that are not hidden
func (s *Snapshot) VisibleScripts() []ScriptView {
	out := make([]ScriptView, 0, len(s.Scripts))
	for _, sv := range s.Scripts {
		if !sv.Hidden {
			out = append(out, sv)
		}
	}
	return out
}
