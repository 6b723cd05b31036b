package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrides_Toggle(t *testing.T) {
	t.Run("inactive script is force selected", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(2, false)

		assert.True(t, o.IsSelected(2))
		assert.False(t, o.IsDeselected(2))
	})

	t.Run("auto activated script is force deselected", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(1, true)

		assert.True(t, o.IsDeselected(1))
		assert.False(t, o.IsSelected(1))
	})

	t.Run("deselected script returns to automatic", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(1, true)
		o.Toggle(1, false)

		assert.Empty(t, o.Selected())
		assert.Empty(t, o.Deselected())
	})

	t.Run("selected script is released", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(0, false)
		o.Toggle(0, true)

		assert.Empty(t, o.Selected())
		assert.Empty(t, o.Deselected())
	})

	t.Run("selected script shown inactive is released", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(0, false)
		o.Toggle(0, false)

		assert.False(t, o.IsSelected(0))
		assert.False(t, o.IsDeselected(0))
	})

	t.Run("indices are independent", func(t *testing.T) {
		o := NewOverrides()
		o.Toggle(3, false)
		o.Toggle(1, true)
		o.Toggle(0, false)

		assert.Equal(t, []int{0, 3}, o.Selected())
		assert.Equal(t, []int{1}, o.Deselected())
	})
}

func TestOverrides_NeverInBothSets(t *testing.T) {
	o := NewOverrides()
	clicks := []bool{true, false, false, true, true, false, true, true, false}

	for i, active := range clicks {
		o.Toggle(0, active)
		assert.False(t, o.IsSelected(0) && o.IsDeselected(0), "click %d", i)
	}
}
