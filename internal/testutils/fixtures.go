package testutils

import (
	"context"
	"time"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

// CreateTestActor creates an actor standing on a token
func CreateTestActor(id, name string) *dialog.Actor {
	return &dialog.Actor{
		ID:      id,
		Name:    name,
		TokenID: "token-" + id,
		SceneID: "scene-1",
	}
}

// CreateTestTarget creates a target for an actor created by CreateTestActor
func CreateTestTarget(actorID, name string) dialog.Target {
	return dialog.Target{
		TokenID: "token-" + actorID,
		ActorID: actorID,
		Name:    name,
	}
}

// CreateTestScript creates a script that is always active and adds modifier
func CreateTestScript(key, label string, modifier int) dialog.Script {
	return dialog.Script{
		Key:   key,
		Label: label,
		Activated: func(context.Context, *dialog.Dialog) (bool, error) {
			return true, nil
		},
		Effect: func(_ context.Context, d *dialog.Dialog) error {
			d.AddField(dialog.FieldModifier, modifier)
			return nil
		},
	}
}

// CreateTestRequest creates a dialog request for actor
func CreateTestRequest(actor *dialog.Actor, subject string, scripts ...dialog.Script) *dialog.Request {
	return &dialog.Request{
		Data: dialog.Data{
			Title:   dialog.DefaultTitle,
			Subject: subject,
			Speaker: &dialog.Speaker{
				ActorID: actor.ID,
				TokenID: actor.TokenID,
				SceneID: actor.SceneID,
				Alias:   actor.Name,
			},
			Scripts: scripts,
		},
		Fields: dialog.Fields{
			dialog.FieldDifficulty: string(dialog.DefaultDifficulty),
		},
	}
}

// CreateTestResult creates a finalized result for actorID
func CreateTestResult(id, actorID string, resolvedAt time.Time) *dialog.Result {
	return &dialog.Result{
		ID:      id,
		Title:   dialog.DefaultTitle,
		Subject: "Athletics",
		Speaker: &dialog.Speaker{ActorID: actorID, TokenID: "token-" + actorID},
		Context: dialog.Context{
			Tags:      map[string]string{},
			Breakdown: []string{"Initial: modifier changed from 0 to 10"},
		},
		Fields: dialog.Fields{
			dialog.FieldModifier:     10,
			dialog.FieldSuccessLevel: 0,
			dialog.FieldDifficulty:   string(dialog.DefaultDifficulty),
			dialog.FieldState:        string(dialog.StateNone),
			dialog.FieldRollMode:     string(dialog.DefaultRollMode),
		},
		State:      dialog.StateNone,
		ResolvedAt: resolvedAt,
	}
}
