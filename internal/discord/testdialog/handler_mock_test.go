package testdialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/scripts/catalog"
	testdialogService "github.com/KirkDiggler/dnd-test-dialog/internal/services/testdialog"
	mocktestdialog "github.com/KirkDiggler/dnd-test-dialog/internal/services/testdialog/mock"
)

func newMockedHandler(t *testing.T) (*mocktestdialog.MockService, *core.Pipeline, *core.MockSession) {
	ctrl := gomock.NewController(t)
	service := mocktestdialog.NewMockService(ctrl)

	c, err := catalog.Parse([]byte(handlerCatalog))
	require.NoError(t, err)

	handler := NewHandler(&HandlerConfig{
		Service:   service,
		Actors:    c,
		Selection: catalog.NewSelection(),
	})
	pipeline := core.NewPipeline()
	handler.Register(pipeline)

	return service, pipeline, core.NewMockSession()
}

func TestHandler_InternalErrorsAreHidden(t *testing.T) {
	service, pipeline, session := newMockedHandler(t)

	service.EXPECT().
		Submit(gomock.Any(), dialogID).
		Return(nil, errors.New("redis: connection refused"))

	customID := core.NewCustomIDBuilder(CommandName).Encode(ActionRoll, dialogID)
	i := core.NewTestInteraction(userID, channelID).AsComponent(customID)
	require.NoError(t, pipeline.Execute(context.Background(), session, i.InteractionCreate))

	resp := session.LastResponse()
	assert.Equal(t, "An error occurred while processing your request.", resp.Data.Content)
}

func TestHandler_RollPassesOptions(t *testing.T) {
	service, pipeline, session := newMockedHandler(t)

	req := &dialog.Request{Data: dialog.Data{Title: "Parry"}}
	service.EXPECT().
		Setup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *testdialogService.SetupInput) (*dialog.Request, error) {
			assert.Equal(t, "hero", input.ActorID)
			assert.Equal(t, "Melee", input.Subject)
			assert.Equal(t, "Parry", input.Options.Title.Replace)
			assert.Equal(t, "hard", input.Options.Fields[dialog.FieldDifficulty])
			assert.True(t, input.Options.SkipTargets)
			return req, nil
		})
	service.EXPECT().
		Bypass(gomock.Any(), req, gomock.Any()).
		Return(&dialog.Result{
			ID:     "result-1",
			Title:  "Parry",
			Fields: dialog.Fields{dialog.FieldRollMode: string(dialog.RollModePublic)},
			State:  dialog.StateNone,
		}, nil)

	i := core.NewTestInteraction(userID, channelID).AsCommand(CommandName, SubcommandRoll, map[string]interface{}{
		OptionSubject:     "Melee",
		OptionTitle:       "Parry",
		OptionDifficulty:  "hard",
		OptionSkipTargets: true,
		OptionBypass:      true,
	})
	require.NoError(t, pipeline.Execute(context.Background(), session, i.InteractionCreate))

	resp := session.LastResponse()
	require.Len(t, resp.Data.Embeds, 1)
	assert.Zero(t, resp.Data.Flags)
	assert.Equal(t, "Parry", resp.Data.Embeds[0].Title)
}
