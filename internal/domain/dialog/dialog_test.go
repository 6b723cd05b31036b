package dialog

import (
	"context"
	"errors"
	"testing"
	"time"

	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func always(v bool) HookFunc {
	return func(context.Context, *Dialog) (bool, error) { return v, nil }
}

func counting(n *int, v bool) HookFunc {
	return func(context.Context, *Dialog) (bool, error) {
		*n++
		return v, nil
	}
}

func addAdvantage(n int) ActionFunc {
	return func(_ context.Context, d *Dialog) error {
		d.AddAdvantage(n)
		return nil
	}
}

func addModifier(n int) ActionFunc {
	return func(_ context.Context, d *Dialog) error {
		d.AddField(FieldModifier, n)
		return nil
	}
}

func newTestDialog(fields Fields, scripts ...Script) *Dialog {
	req := &Request{
		Data: Data{
			Title:   "Test",
			Subject: "Athletics",
			Speaker: &Speaker{ActorID: "actor-1", TokenID: "token-1"},
			Scripts: scripts,
		},
		Fields: fields,
	}
	return New(req, Options{
		ID:  "dialog-1",
		Now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestDialog_Render_Composition(t *testing.T) {
	ctx := context.Background()
	d := newTestDialog(Fields{FieldModifier: 10, FieldDifficulty: "hard"})

	_, err := d.AdjustEntry(ctx, FieldModifier, 5)
	require.NoError(t, err)
	snap, err := d.AdjustEntry(ctx, FieldModifier, 5)
	require.NoError(t, err)

	assert.Equal(t, 20, snap.Fields.Int(FieldModifier))
	assert.Equal(t, "hard", snap.Fields.String(FieldDifficulty))
	assert.Equal(t, StateNone, snap.State)
	assert.Equal(t, []string{
		"Initial: modifier changed from 0 to 10, difficulty changed from challenging to hard",
		"User Entry: modifier changed from 10 to 20",
	}, snap.Breakdown)
}

func TestDialog_Render_FieldsAreDefaultPlusEntries(t *testing.T) {
	ctx := context.Background()
	sequences := [][]int{
		{1},
		{1, 1},
		{5, -3, 10},
		{-10, -10, -10, 40},
		{7, 0, 0, -7, 2},
	}

	for _, seq := range sequences {
		first := newTestDialog(nil)
		second := newTestDialog(nil)

		want := 0
		var a, b *Snapshot
		var err error
		for _, delta := range seq {
			want += delta
			a, err = first.AdjustEntry(ctx, FieldSuccessLevel, delta)
			require.NoError(t, err)
			b, err = second.AdjustEntry(ctx, FieldSuccessLevel, delta)
			require.NoError(t, err)
		}

		assert.Equal(t, want, a.Fields.Int(FieldSuccessLevel), "sequence %v", seq)
		assert.Equal(t, a.Fields, b.Fields, "sequence %v", seq)
		assert.Equal(t, a.Breakdown, b.Breakdown, "sequence %v", seq)
	}
}

func TestDialog_Render_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	d := newTestDialog(Fields{FieldModifier: 10},
		Script{Key: "bless", Label: "Blessed", Activated: always(true), Effect: addAdvantage(3)},
	)

	first, err := d.Render(ctx)
	require.NoError(t, err)
	second, err := d.Render(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Fields, second.Fields)
	assert.Equal(t, first.Breakdown, second.Breakdown)
	assert.Equal(t, 3, second.Advantage)
}

func TestDialog_Input(t *testing.T) {
	ctx := context.Background()

	t.Run("form values replace the previous entry", func(t *testing.T) {
		d := newTestDialog(nil)
		_, err := d.Input(ctx, FieldModifier, 10)
		require.NoError(t, err)
		snap, err := d.Input(ctx, FieldModifier, 30)
		require.NoError(t, err)

		assert.Equal(t, 30, snap.Fields.Int(FieldModifier))
	})

	t.Run("difficulty replaces", func(t *testing.T) {
		d := newTestDialog(nil)
		snap, err := d.Input(ctx, FieldDifficulty, "veryHard")
		require.NoError(t, err)

		assert.Equal(t, "veryHard", snap.Fields.String(FieldDifficulty))
		assert.Equal(t, []string{"User Entry: difficulty changed from challenging to veryHard"}, snap.Breakdown)
	})

	t.Run("unsupported values are ignored", func(t *testing.T) {
		d := newTestDialog(nil)
		snap, err := d.Input(ctx, FieldModifier, struct{}{})
		require.NoError(t, err)

		assert.Equal(t, 0, snap.Fields.Int(FieldModifier))
		assert.Empty(t, d.UserEntry())
	})

	t.Run("numbers outside the int range are ignored", func(t *testing.T) {
		d := newTestDialog(nil)
		_, err := d.Input(ctx, FieldModifier, 10)
		require.NoError(t, err)

		snap, err := d.Input(ctx, FieldModifier, ParseInput("1e300"))
		require.NoError(t, err)
		assert.Equal(t, 10, snap.Fields.Int(FieldModifier))

		snap, err = d.Input(ctx, FieldModifier, uint64(1<<63))
		require.NoError(t, err)
		assert.Equal(t, 10, snap.Fields.Int(FieldModifier))

		snap, err = d.Input(ctx, FieldModifier, 2.5)
		require.NoError(t, err)
		assert.Equal(t, 10, snap.Fields.Int(FieldModifier))
	})

	t.Run("unknown state is ignored", func(t *testing.T) {
		d := newTestDialog(nil)
		snap, err := d.Input(ctx, FieldState, "adv")
		require.NoError(t, err)

		assert.Equal(t, StateUnset, snap.ForcedState)
		assert.Equal(t, StateNone, snap.State)
	})

	t.Run("empty state clears the forced state", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Blessed", Activated: always(true), Effect: addAdvantage(1)})
		snap, err := d.Input(ctx, FieldState, string(StateDisadvantage))
		require.NoError(t, err)
		assert.Equal(t, StateDisadvantage, snap.State)

		snap, err = d.Input(ctx, FieldState, "")
		require.NoError(t, err)
		assert.Equal(t, StateUnset, snap.ForcedState)
		assert.Equal(t, StateAdvantage, snap.State)
		assert.NotContains(t, d.UserEntry(), FieldState)
	})
}

func TestDialog_State(t *testing.T) {
	ctx := context.Background()

	t.Run("excess advantage raises the modifier", func(t *testing.T) {
		d := newTestDialog(nil, Script{Key: "bless", Label: "Blessed", Activated: always(true), Effect: addAdvantage(3)})
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.Equal(t, StateAdvantage, snap.State)
		assert.Equal(t, string(StateAdvantage), snap.Fields.String(FieldState))
		assert.Equal(t, 20, snap.Fields.Int(FieldModifier))
		assert.Equal(t, []string{
			"Blessed: advantage changed from 0 to 3",
			"Excess Advantage: modifier changed from 0 to 20",
		}, snap.Breakdown)
	})

	t.Run("excess disadvantage lowers the modifier", func(t *testing.T) {
		d := newTestDialog(Fields{FieldModifier: 10}, Script{
			Label:     "Prone",
			Activated: always(true),
			Effect: func(_ context.Context, d *Dialog) error {
				d.AddDisadvantage(3)
				return nil
			},
		})
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.Equal(t, StateDisadvantage, snap.State)
		assert.Equal(t, -10, snap.Fields.Int(FieldModifier))
		assert.Contains(t, snap.Breakdown, "Excess Disadvantage: modifier changed from 10 to -10")
	})

	t.Run("forced state wins and keeps the modifier", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Blessed", Activated: always(true), Effect: addAdvantage(5)})
		snap, err := d.Input(ctx, FieldState, string(StateDisadvantage))
		require.NoError(t, err)

		assert.Equal(t, StateDisadvantage, snap.State)
		assert.Equal(t, 0, snap.Fields.Int(FieldModifier))
		assert.Equal(t, 5, snap.Advantage)
		for _, line := range snap.Breakdown {
			assert.NotContains(t, line, LabelExcessAdvantage)
		}
	})

	t.Run("equal counts cancel", func(t *testing.T) {
		d := newTestDialog(nil, Script{
			Label:     "Mixed",
			Activated: always(true),
			Effect: func(_ context.Context, d *Dialog) error {
				d.AddAdvantage(2)
				d.AddDisadvantage(2)
				return nil
			},
		})
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.Equal(t, StateNone, snap.State)
		assert.Equal(t, 0, snap.Fields.Int(FieldModifier))
	})
}

func TestDialog_Scripts_Visibility(t *testing.T) {
	ctx := context.Background()

	t.Run("hidden script is not tested", func(t *testing.T) {
		calls := 0
		d := newTestDialog(nil, Script{Label: "Secret", Hidden: always(true), Activated: counting(&calls, true), Effect: addModifier(10)})
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.Zero(t, calls)
		assert.True(t, snap.Scripts[0].Hidden)
		assert.False(t, snap.Scripts[0].Active)
		assert.Empty(t, snap.VisibleScripts())
		assert.Equal(t, 0, snap.Fields.Int(FieldModifier))
	})

	t.Run("selected script is never hidden", func(t *testing.T) {
		hiddenCalls := 0
		d := newTestDialog(nil, Script{Label: "Secret", Hidden: counting(&hiddenCalls, false), Activated: always(false), Effect: addModifier(10)})
		_, err := d.Render(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, hiddenCalls)

		snap, err := d.ToggleScript(ctx, 0)
		require.NoError(t, err)

		assert.Equal(t, 1, hiddenCalls)
		assert.True(t, snap.Scripts[0].Selected)
		assert.True(t, snap.Scripts[0].Active)
		assert.False(t, snap.Scripts[0].Hidden)
		assert.Equal(t, 10, snap.Fields.Int(FieldModifier))
	})
}

func TestDialog_ToggleScript(t *testing.T) {
	ctx := context.Background()

	t.Run("deselected script is never active", func(t *testing.T) {
		calls := 0
		d := newTestDialog(nil, Script{Label: "Blessed", Activated: counting(&calls, true), Effect: addAdvantage(1)})
		_, err := d.Render(ctx)
		require.NoError(t, err)

		snap, err := d.ToggleScript(ctx, 0)
		require.NoError(t, err)
		assert.True(t, snap.Scripts[0].Deselected)
		assert.False(t, snap.Scripts[0].Active)
		assert.Equal(t, StateNone, snap.State)

		before := calls
		snap, err = d.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, calls)
		assert.False(t, snap.Scripts[0].Active)
	})

	t.Run("toggling twice restores automatic evaluation", func(t *testing.T) {
		for _, auto := range []bool{true, false} {
			d := newTestDialog(nil,
				Script{Label: "Other", Activated: always(true), Effect: addModifier(1)},
				Script{Label: "Subject", Activated: always(auto), Effect: addModifier(10)},
			)
			initial, err := d.Render(ctx)
			require.NoError(t, err)

			toggled, err := d.ToggleScript(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, !auto, toggled.Scripts[1].Active, "auto=%v", auto)

			restored, err := d.ToggleScript(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, initial.Scripts, restored.Scripts, "auto=%v", auto)
			assert.Equal(t, initial.Fields, restored.Fields, "auto=%v", auto)
		}
	})

	t.Run("renders a stale dialog before toggling", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Blessed", Activated: always(true), Effect: addAdvantage(1)})

		snap, err := d.ToggleScript(ctx, 0)
		require.NoError(t, err)
		assert.True(t, snap.Scripts[0].Deselected)
		assert.False(t, snap.Scripts[0].Active)
	})

	t.Run("index out of range", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Blessed"})

		_, err := d.ToggleScript(ctx, 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrScriptIndex))
		assert.True(t, dnderr.IsInvalidArgument(err))
		assert.Equal(t, 1, dnderr.GetMeta(err)["script_count"])
	})
}

func TestDialog_Scripts_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("failing activation test does not block later scripts", func(t *testing.T) {
		d := newTestDialog(nil,
			Script{Label: "Broken", Activated: func(context.Context, *Dialog) (bool, error) {
				return false, errors.New("lookup failed")
			}},
			Script{Label: "Steady", Activated: always(true), Effect: addModifier(5)},
		)
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.True(t, snap.Scripts[0].Failed)
		assert.False(t, snap.Scripts[0].Active)
		assert.True(t, snap.Scripts[1].Active)
		assert.Equal(t, 5, snap.Fields.Int(FieldModifier))
	})

	t.Run("panicking effect is rolled back", func(t *testing.T) {
		d := newTestDialog(nil,
			Script{Label: "Wild", Activated: always(true), Effect: func(_ context.Context, d *Dialog) error {
				d.SetField(FieldModifier, 100)
				d.AddAdvantage(4)
				panic("boom")
			}},
			Script{Label: "Steady", Activated: always(true), Effect: addModifier(5)},
		)
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.True(t, snap.Scripts[0].Failed)
		assert.False(t, snap.Scripts[0].Active)
		assert.Equal(t, 5, snap.Fields.Int(FieldModifier))
		assert.Zero(t, snap.Advantage)
		assert.Equal(t, []string{"Steady: modifier changed from 0 to 5"}, snap.Breakdown)
	})

	t.Run("failing hidden test shows the script inactive", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Odd", Hidden: func(context.Context, *Dialog) (bool, error) {
			return false, errors.New("bad")
		}, Activated: always(true)})
		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.False(t, snap.Scripts[0].Hidden)
		assert.False(t, snap.Scripts[0].Active)
		assert.True(t, snap.Scripts[0].Failed)
	})
}

func TestDialog_Scripts_ReadEarlierEffects(t *testing.T) {
	ctx := context.Background()
	d := newTestDialog(nil,
		Script{Label: "Inspired", Activated: always(true), Effect: addModifier(10)},
		Script{
			Label: "Focused",
			Activated: func(_ context.Context, d *Dialog) (bool, error) {
				return d.Fields().Int(FieldModifier) > 0, nil
			},
			Effect: func(_ context.Context, d *Dialog) error {
				d.Flags()["focused"] = true
				d.AddField(FieldSuccessLevel, 1)
				return nil
			},
		},
	)
	snap, err := d.Render(ctx)
	require.NoError(t, err)

	// Activation runs before any effect
	assert.False(t, snap.Scripts[1].Active)
	assert.Equal(t, 0, snap.Fields.Int(FieldSuccessLevel))
}

func TestDialog_Abort(t *testing.T) {
	ctx := context.Background()

	t.Run("abort during render closes without a result", func(t *testing.T) {
		later := 0
		d := newTestDialog(nil,
			Script{Label: "Stop", Activated: always(true), Effect: func(_ context.Context, d *Dialog) error {
				d.Abort()
				return nil
			}},
			Script{Label: "Later", Activated: always(true), Effect: func(context.Context, *Dialog) error {
				later++
				return nil
			}},
		)
		closed := 0
		d.OnClose(func() { closed++ })

		snap, err := d.Render(ctx)
		require.NoError(t, err)

		assert.True(t, snap.Closed)
		assert.True(t, d.Closed())
		assert.Equal(t, 1, later)
		assert.Equal(t, 1, closed)
		assert.Equal(t, OutcomeAbandoned, d.Submission().Outcome())

		_, err = d.Render(ctx)
		assert.ErrorIs(t, err, ErrClosed)
	})

	t.Run("abort during bypass", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Stop", Activated: always(true), Effect: func(_ context.Context, d *Dialog) error {
			d.Abort()
			return nil
		}})

		_, err := d.Bypass(ctx)
		require.Error(t, err)
		assert.True(t, dnderr.IsAborted(err))
		assert.Equal(t, OutcomeAbandoned, d.Submission().Outcome())
	})
}

func TestDialog_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers exactly once", func(t *testing.T) {
		submitted := 0
		d := newTestDialog(Fields{FieldModifier: 10}, Script{
			Label:     "Blessed",
			Activated: always(true),
			Effect:    addAdvantage(1),
			Submission: func(_ context.Context, d *Dialog) error {
				submitted++
				d.Context().Tags["blessed"] = "Blessed"
				return nil
			},
		})
		closed := 0
		d.OnClose(func() { closed++ })

		_, err := d.Render(ctx)
		require.NoError(t, err)

		result, err := d.Submit(ctx)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "dialog-1", result.ID)
		assert.Equal(t, 10, result.Modifier())
		assert.Equal(t, DifficultyChallenging, result.Difficulty())
		assert.Equal(t, StateAdvantage, result.State)
		assert.Equal(t, []string{"Blessed"}, result.ActiveScripts)
		assert.Equal(t, "Blessed", result.Context.Tags["blessed"])
		assert.Equal(t, []string{
			"Initial: modifier changed from 0 to 10",
			"Blessed: advantage changed from 0 to 1",
		}, result.Context.Breakdown)
		assert.Equal(t, "actor-1", result.Speaker.ActorID)

		_, err = d.Submit(ctx)
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
		_, err = d.Bypass(ctx)
		assert.ErrorIs(t, err, ErrAlreadyFinalized)

		assert.Equal(t, 1, submitted)
		assert.Equal(t, 1, closed)

		delivered, ok := d.Submission().Result()
		assert.True(t, ok)
		assert.Same(t, result, delivered)
	})

	t.Run("bypass runs a full pass", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Blessed", Activated: always(true), Effect: addAdvantage(2)})

		result, err := d.Bypass(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateAdvantage, result.State)
		assert.Equal(t, 10, result.Modifier())
	})

	t.Run("failing submission hook does not stop delivery", func(t *testing.T) {
		d := newTestDialog(nil, Script{Label: "Grumpy", Activated: always(true), Submission: func(context.Context, *Dialog) error {
			return errors.New("nope")
		}})

		result, err := d.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Grumpy"}, result.ActiveScripts)
	})

	t.Run("result does not alias the dialog", func(t *testing.T) {
		d := newTestDialog(nil)
		result, err := d.Submit(ctx)
		require.NoError(t, err)

		result.Fields[FieldModifier] = 99
		assert.Equal(t, 0, d.Fields().Int(FieldModifier))
	})
}

func TestDialog_Cancel(t *testing.T) {
	ctx := context.Background()
	d := newTestDialog(nil)
	closed := 0
	d.OnClose(func() { closed++ })

	d.Cancel()
	d.Cancel()

	assert.Equal(t, 1, closed)
	result, outcome, err := d.Submission().Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, OutcomeAbandoned, outcome)

	_, err = d.Submit(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = d.Input(ctx, FieldModifier, 1)
	assert.ErrorIs(t, err, ErrClosed)

	late := false
	d.OnClose(func() { late = true })
	assert.True(t, late)
}

type successLevelExtension struct{}

func (successLevelExtension) ComputeFields(_ context.Context, d *Dialog) error {
	d.AddField(FieldSuccessLevel, d.Fields().Int(FieldModifier)/10)
	return nil
}

func (successLevelExtension) TemplateFields(d *Dialog) map[string]any {
	return map[string]any{"characteristic": "ws"}
}

func TestDialog_Extension(t *testing.T) {
	req := &Request{Fields: Fields{FieldModifier: 30}}
	d := New(req, Options{ID: "dialog-ext", Extension: successLevelExtension{}, InitialTooltip: "Weapon Skill"})

	snap, err := d.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Fields.Int(FieldSuccessLevel))
	assert.Equal(t, "ws", snap.SubTemplate["characteristic"])
	assert.Equal(t, []string{"Weapon Skill: modifier changed from 0 to 30"}, snap.Breakdown)
}

func TestDialog_SetTargets(t *testing.T) {
	ctx := context.Background()
	d := newTestDialog(nil, Script{
		Label: "Outnumbered",
		Activated: func(_ context.Context, d *Dialog) (bool, error) {
			return len(d.Targets()) > 1, nil
		},
		Effect: addModifier(-10),
	})

	snap, err := d.Render(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Scripts[0].Active)

	d.SetTargets([]Target{{TokenID: "a"}, {TokenID: "b"}})
	snap, err = d.Render(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Scripts[0].Active)
	assert.Len(t, snap.Targets, 2)
	assert.Equal(t, -10, snap.Fields.Int(FieldModifier))
}
