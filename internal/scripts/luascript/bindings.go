package luascript

import (
	"github.com/Shopify/go-lua"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

// bindDialog exposes d to Lua as the global table "dialog"
func bindDialog(l *lua.State, d *dialog.Dialog) {
	functions := []lua.RegistryFunction{
		{Name: "field", Function: func(l *lua.State) int {
			pushValue(l, d.Field(lua.CheckString(l, 1)))
			return 1
		}},
		{Name: "set", Function: func(l *lua.State) int {
			key := lua.CheckString(l, 1)
			value, ok := toValue(l, 2)
			if !ok {
				lua.ArgumentError(l, 2, "number, string or boolean expected")
			}
			l.PushBoolean(d.SetField(key, value))
			return 1
		}},
		{Name: "add", Function: func(l *lua.State) int {
			key := lua.CheckString(l, 1)
			l.PushBoolean(d.AddField(key, lua.CheckInteger(l, 2)))
			return 1
		}},
		{Name: "advantage", Function: func(l *lua.State) int {
			d.AddAdvantage(lua.OptInteger(l, 1, 1))
			return 0
		}},
		{Name: "disadvantage", Function: func(l *lua.State) int {
			d.AddDisadvantage(lua.OptInteger(l, 1, 1))
			return 0
		}},
		{Name: "abort", Function: func(l *lua.State) int {
			d.Abort()
			return 0
		}},
		{Name: "flag", Function: func(l *lua.State) int {
			pushValue(l, d.Flags()[lua.CheckString(l, 1)])
			return 1
		}},
		{Name: "setFlag", Function: func(l *lua.State) int {
			key := lua.CheckString(l, 1)
			if value, ok := toValue(l, 2); ok {
				d.Flags()[key] = value
			} else {
				delete(d.Flags(), key)
			}
			return 0
		}},
		{Name: "targets", Function: func(l *lua.State) int {
			l.PushInteger(len(d.Targets()))
			return 1
		}},
		{Name: "tag", Function: func(l *lua.State) int {
			key := lua.CheckString(l, 1)
			value := lua.CheckString(l, 2)
			c := d.Context()
			if c.Tags == nil {
				c.Tags = make(map[string]string)
			}
			c.Tags[key] = value
			return 0
		}},
		{Name: "text", Function: func(l *lua.State) int {
			key := lua.CheckString(l, 1)
			value := lua.CheckString(l, 2)
			c := d.Context()
			if c.Text == nil {
				c.Text = make(map[string]string)
			}
			c.Text[key] = value
			return 0
		}},
		{Name: "actor", Function: func(l *lua.State) int {
			if a := d.Actor(); a != nil {
				l.PushString(a.Name)
			} else {
				l.PushNil()
			}
			return 1
		}},
		{Name: "subject", Function: func(l *lua.State) int {
			l.PushString(d.Subject())
			return 1
		}},
	}

	l.NewTable()
	lua.SetFunctions(l, functions, 0)
	l.SetGlobal("dialog")
}

func pushValue(l *lua.State, value any) {
	switch v := value.(type) {
	case int:
		l.PushInteger(v)
	case string:
		l.PushString(v)
	case bool:
		l.PushBoolean(v)
	default:
		l.PushNil()
	}
}

func toValue(l *lua.State, index int) (any, bool) {
	switch l.TypeOf(index) {
	case lua.TypeBoolean:
		return l.ToBoolean(index), true
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return dialog.Normalize(n)
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s, true
	default:
		return nil, false
	}
}
