package dialog

// State is the advantage state of a test
type State string

const (
	// StateUnset means no forced state; only meaningful as a forced state
	StateUnset        State = ""
	StateNone         State = "none"
	StateAdvantage    State = "advantage"
	StateDisadvantage State = "disadvantage"
)

// ExcessStep is the modifier granted per net point of advantage beyond the first
const ExcessStep = 10

// Tooltip labels used by the resolver
const (
	LabelExcessAdvantage    = "Excess Advantage"
	LabelExcessDisadvantage = "Excess Disadvantage"
)

// IsValid reports whether s is one of the known states, including unset
func (s State) IsValid() bool {
	switch s {
	case StateUnset, StateNone, StateAdvantage, StateDisadvantage:
		return true
	}
	return false
}

// ResolveState turns the counters into a state and the modifier change that
// comes with it. A forced state wins unconditionally and never changes the
// modifier. Only the first net point of advantage or disadvantage changes
// the state; every further point is worth ExcessStep on the modifier.
func ResolveState(forced State, advantage, disadvantage int) (State, int) {
	if forced != StateUnset {
		return forced, 0
	}

	switch {
	case advantage > disadvantage && advantage > 0:
		return StateAdvantage, ExcessStep * ((advantage - 1) - disadvantage)
	case disadvantage > advantage && disadvantage > 0:
		return StateDisadvantage, -ExcessStep * ((disadvantage - 1) - advantage)
	default:
		return StateNone, 0
	}
}
