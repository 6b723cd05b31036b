package core

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPanel() (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{Title: "Melee"}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Roll", CustomID: "test:submit:dialog-1"},
		}},
	}
	return embed, components
}

func TestNewClosedUpdate(t *testing.T) {
	response := NewClosedUpdate("Test cancelled.")
	assert.True(t, response.Update)
	assert.False(t, response.Ephemeral)

	data := buildResponseData(response)
	assert.Equal(t, "Test cancelled.", data.Content)
	require.NotNil(t, data.Embeds)
	assert.Empty(t, data.Embeds)
	require.NotNil(t, data.Components)
	assert.Empty(t, data.Components)
}

func TestNewPanel(t *testing.T) {
	embed, components := testPanel()

	panel := NewPanel(embed, components)
	assert.True(t, panel.Ephemeral)
	assert.False(t, panel.Update)
	assert.Equal(t, []*discordgo.MessageEmbed{embed}, panel.Embeds)
	assert.Len(t, panel.Components, 1)

	update := NewPanelUpdate(embed, components)
	assert.True(t, update.Update)
	assert.False(t, update.Ephemeral)
	assert.Equal(t, panel.Embeds, update.Embeds)
}

func TestResponse_Edit(t *testing.T) {
	t.Run("closed update clears embeds and controls", func(t *testing.T) {
		edit := NewClosedUpdate("The test expired.").Edit()
		require.NotNil(t, edit.Content)
		assert.Equal(t, "The test expired.", *edit.Content)
		require.NotNil(t, edit.Embeds)
		assert.Empty(t, *edit.Embeds)
		require.NotNil(t, edit.Components)
		assert.Empty(t, *edit.Components)
	})

	t.Run("panel update redraws", func(t *testing.T) {
		embed, components := testPanel()
		edit := NewPanelUpdate(embed, components).Edit()
		require.NotNil(t, edit.Embeds)
		assert.Equal(t, "Melee", (*edit.Embeds)[0].Title)
		require.NotNil(t, edit.Components)
		assert.Len(t, *edit.Components, 1)
	})

	t.Run("nil embeds are left alone", func(t *testing.T) {
		edit := NewResponse("note").Edit()
		assert.Nil(t, edit.Embeds)
		require.NotNil(t, edit.Components)
		assert.Empty(t, *edit.Components)
	})
}

func TestReply(t *testing.T) {
	response := NewEphemeralResponse("hi")
	result := Reply(response)
	assert.Same(t, response, result.Response)

	handled, err := HandlerFunc(func(*InteractionContext) (*HandlerResult, error) {
		return Reply(NewResponse("ok").AsUpdate()), nil
	}).Handle(nil)
	require.NoError(t, err)
	assert.True(t, handled.Response.Update)
}
