package core

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// TestInteraction builds interactions for tests
type TestInteraction struct {
	*discordgo.InteractionCreate
}

// NewTestInteraction creates an interaction from userID in channelID
func NewTestInteraction(userID, channelID string) *TestInteraction {
	return &TestInteraction{
		InteractionCreate: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				ID:        "interaction-" + userID,
				ChannelID: channelID,
				GuildID:   "test-guild-123",
				Member: &discordgo.Member{
					User: &discordgo.User{ID: userID},
				},
			},
		},
	}
}

// AsCommand simulates a slash command with a subcommand and its options
func (t *TestInteraction) AsCommand(name, subcommand string, options map[string]interface{}) *TestInteraction {
	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: subcommand,
		Type: discordgo.ApplicationCommandOptionSubCommand,
	}
	for optName, value := range options {
		sub.Options = append(sub.Options, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  optName,
			Type:  optionType(value),
			Value: value,
		})
	}

	t.Type = discordgo.InteractionApplicationCommand
	t.Data = discordgo.ApplicationCommandInteractionData{
		Name:    name,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{sub},
	}
	return t
}

// AsComponent simulates a component interaction
func (t *TestInteraction) AsComponent(customID string, values ...string) *TestInteraction {
	t.Type = discordgo.InteractionMessageComponent
	t.Data = discordgo.MessageComponentInteractionData{
		CustomID: customID,
		Values:   values,
	}
	return t
}

// Context creates an InteractionContext for the interaction
func (t *TestInteraction) Context(s Session) *InteractionContext {
	return NewInteractionContext(context.Background(), s, t.InteractionCreate)
}

func optionType(value interface{}) discordgo.ApplicationCommandOptionType {
	switch value.(type) {
	case bool:
		return discordgo.ApplicationCommandOptionBoolean
	case float64, int:
		return discordgo.ApplicationCommandOptionInteger
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// MockSession records what the interaction layer sends to Discord
type MockSession struct {
	mu          sync.Mutex
	Responses   []*discordgo.InteractionResponse
	Edits       []*discordgo.WebhookEdit
	FollowUps   []*discordgo.WebhookParams
	ChannelSent map[string][]*discordgo.MessageSend

	RespondError error
}

// NewMockSession creates a new mock session
func NewMockSession() *MockSession {
	return &MockSession{
		ChannelSent: make(map[string][]*discordgo.MessageSend),
	}
}

func (m *MockSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, resp)
	return m.RespondError
}

func (m *MockSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edits = append(m.Edits, edit)
	return &discordgo.Message{ID: "original-message"}, nil
}

func (m *MockSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FollowUps = append(m.FollowUps, data)
	return &discordgo.Message{ID: "test-message-123"}, nil
}

func (m *MockSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChannelSent[channelID] = append(m.ChannelSent[channelID], data)
	return &discordgo.Message{ID: "channel-message", ChannelID: channelID}, nil
}

// LastResponse returns the last interaction response sent
func (m *MockSession) LastResponse() *discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Responses) == 0 {
		return nil
	}
	return m.Responses[len(m.Responses)-1]
}

// Sent returns the messages posted to channelID
func (m *MockSession) Sent(channelID string) []*discordgo.MessageSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*discordgo.MessageSend(nil), m.ChannelSent[channelID]...)
}

// EditCount returns the number of edits of original responses
func (m *MockSession) EditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Edits)
}
