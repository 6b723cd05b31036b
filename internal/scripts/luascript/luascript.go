// Package luascript compiles Lua chunks into dialog script hooks.
//
// Every chunk runs in a fresh sandboxed state with a global "dialog" table
// bound to the dialog being rendered. Test chunks return a boolean; action
// chunks return nothing.
//
//	-- activate
//	return dialog.targets() > 1
//	-- effect
//	dialog.add("modifier", -10)
//	dialog.tag("outnumbered", "Outnumbered")
package luascript

import (
	"context"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// Source holds the Lua chunks of one script. Empty chunks leave the hook unset.
type Source struct {
	Hide     string `yaml:"hide"`
	Activate string `yaml:"activate"`
	Effect   string `yaml:"effect"`
	Submit   string `yaml:"submit"`
}

// MaxInstructions bounds the work one chunk may do before it is stopped
const MaxInstructions = 1_000_000

// hookInterval is how many instructions run between budget checks
const hookInterval = 1000

// Globals removed from the base library
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"}

// Compile checks every chunk of src and returns a script whose hooks run them
func Compile(key, label string, targeter bool, src Source) (dialog.Script, error) {
	script := dialog.Script{
		Key:      key,
		Label:    label,
		Targeter: targeter,
	}
	if label == "" {
		script.Label = key
	}

	chunks := []struct {
		name string
		code string
	}{
		{"hide", src.Hide},
		{"activate", src.Activate},
		{"effect", src.Effect},
		{"submit", src.Submit},
	}
	for _, c := range chunks {
		if err := check(c.code); err != nil {
			return dialog.Script{}, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument,
				"failed to compile script").
				WithMeta("script", key).
				WithMeta("hook", c.name)
		}
	}

	if strings.TrimSpace(src.Hide) != "" {
		script.Hidden = testHook(key, "hide", src.Hide)
	}
	if strings.TrimSpace(src.Activate) != "" {
		script.Activated = testHook(key, "activate", src.Activate)
	}
	if strings.TrimSpace(src.Effect) != "" {
		script.Effect = actionHook(key, "effect", src.Effect)
	}
	if strings.TrimSpace(src.Submit) != "" {
		script.Submission = actionHook(key, "submit", src.Submit)
	}

	return script, nil
}

func check(code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	l := lua.NewState()
	return lua.LoadString(l, code)
}

func testHook(key, name, code string) dialog.HookFunc {
	return func(ctx context.Context, d *dialog.Dialog) (bool, error) {
		l, err := run(ctx, d, key, name, code)
		if err != nil {
			return false, err
		}
		return l.ToBoolean(-1), nil
	}
}

func actionHook(key, name, code string) dialog.ActionFunc {
	return func(ctx context.Context, d *dialog.Dialog) error {
		_, err := run(ctx, d, key, name, code)
		return err
	}
}

func run(ctx context.Context, d *dialog.Dialog, key, name, code string) (*lua.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := newSandbox(ctx)
	bindDialog(l, d)

	if err := lua.LoadString(l, code); err != nil {
		return nil, dnderr.Wrapf(err, "failed to load %s chunk of script %s", name, key)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, dnderr.Wrapf(err, "failed to run %s chunk of script %s", name, key)
	}
	return l, nil
}

// newSandbox creates a state without file or module access. Chunks that run
// past MaxInstructions or outlive ctx raise a Lua error.
func newSandbox(ctx context.Context) *lua.State {
	l := lua.NewState()
	lua.Require(l, "_G", lua.BaseOpen, true)
	l.Pop(1)
	lua.Require(l, "string", lua.StringOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)

	for _, name := range unsafeGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}

	steps := 0
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		steps += hookInterval
		if err := ctx.Err(); err != nil {
			lua.Errorf(l, "script interrupted: %s", err.Error())
		}
		if steps > MaxInstructions {
			lua.Errorf(l, "script exceeded %d instructions", MaxInstructions)
		}
	}, lua.MaskCount, hookInterval)
	return l
}
