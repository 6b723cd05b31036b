package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveState(t *testing.T) {
	tests := []struct {
		name         string
		forced       State
		advantage    int
		disadvantage int
		wantState    State
		wantDelta    int
	}{
		{name: "no sources", wantState: StateNone},
		{name: "equal counts cancel", advantage: 2, disadvantage: 2, wantState: StateNone},
		{name: "single advantage has no bonus", advantage: 1, wantState: StateAdvantage},
		{name: "excess advantage converts to modifier", advantage: 3, wantState: StateAdvantage, wantDelta: 20},
		{name: "net advantage over disadvantage", advantage: 4, disadvantage: 1, wantState: StateAdvantage, wantDelta: 20},
		{name: "single disadvantage has no penalty", disadvantage: 1, wantState: StateDisadvantage},
		{name: "disadvantage two against one", advantage: 1, disadvantage: 2, wantState: StateDisadvantage, wantDelta: 0},
		{name: "excess disadvantage converts to penalty", disadvantage: 4, wantState: StateDisadvantage, wantDelta: -30},
		{name: "forced disadvantage beats counters", forced: StateDisadvantage, advantage: 5, wantState: StateDisadvantage},
		{name: "forced none beats counters", forced: StateNone, disadvantage: 3, wantState: StateNone},
		{name: "forced advantage with no sources", forced: StateAdvantage, wantState: StateAdvantage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, delta := ResolveState(tt.forced, tt.advantage, tt.disadvantage)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}

func TestResolveState_EqualCountsNeverChangeModifier(t *testing.T) {
	for n := 0; n < 10; n++ {
		state, delta := ResolveState(StateUnset, n, n)
		assert.Equal(t, StateNone, state, "counts %d/%d", n, n)
		assert.Zero(t, delta, "counts %d/%d", n, n)
	}
}

func TestState_IsValid(t *testing.T) {
	assert.True(t, StateUnset.IsValid())
	assert.True(t, StateAdvantage.IsValid())
	assert.True(t, StateDisadvantage.IsValid())
	assert.True(t, StateNone.IsValid())
	assert.False(t, State("adv").IsValid())
}
