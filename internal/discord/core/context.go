package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext wraps a Discord interaction with useful helpers and context
type InteractionContext struct {
	// Core Discord objects
	Session     Session
	Interaction *discordgo.InteractionCreate

	// Extracted common fields for convenience
	UserID    string
	GuildID   string
	ChannelID string

	// Context for cancellation and values
	Context context.Context

	// Parsed interaction data
	params map[string]interface{}
	values []string
}

// NewInteractionContext creates a new InteractionContext from a Discord interaction
func NewInteractionContext(ctx context.Context, s Session, i *discordgo.InteractionCreate) *InteractionContext {
	ic := &InteractionContext{
		Session:     s,
		Interaction: i,
		Context:     ctx,
		params:      make(map[string]interface{}),
	}

	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}

	ic.GuildID = i.GuildID
	ic.ChannelID = i.ChannelID

	ic.parseParams()

	return ic
}

// parseParams extracts parameters from different interaction types
func (ic *InteractionContext) parseParams() {
	switch ic.Interaction.Type {
	case discordgo.InteractionApplicationCommand:
		ic.parseOptions(ic.Interaction.ApplicationCommandData().Options)
	case discordgo.InteractionMessageComponent:
		data := ic.Interaction.MessageComponentData()
		ic.params["custom_id"] = data.CustomID
		ic.values = data.Values
	}
}

// parseOptions recursively extracts command options
func (ic *InteractionContext) parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			ic.params["subcommand"] = opt.Name
			ic.parseOptions(opt.Options)
		default:
			ic.params[opt.Name] = opt.Value
		}
	}
}

// GetParam retrieves a parameter by name
func (ic *InteractionContext) GetParam(name string) interface{} {
	return ic.params[name]
}

// HasParam reports whether the option was supplied
func (ic *InteractionContext) HasParam(name string) bool {
	_, ok := ic.params[name]
	return ok
}

// GetStringParam retrieves a string parameter or returns empty string
func (ic *InteractionContext) GetStringParam(name string) string {
	if val, ok := ic.params[name]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return ""
}

// GetIntParam retrieves an int parameter or returns 0
func (ic *InteractionContext) GetIntParam(name string) int {
	if val, ok := ic.params[name]; ok {
		switch v := val.(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		}
	}
	return 0
}

// GetBoolParam retrieves a bool parameter or returns false
func (ic *InteractionContext) GetBoolParam(name string) bool {
	if val, ok := ic.params[name]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return false
}

// Values returns the selected values of a select menu interaction
func (ic *InteractionContext) Values() []string {
	return ic.values
}

// IsCommand checks if this is a slash command interaction
func (ic *InteractionContext) IsCommand() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionApplicationCommand
}

// IsComponent checks if this is a message component interaction
func (ic *InteractionContext) IsComponent() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionMessageComponent
}

// GetCustomID returns the custom ID for component interactions
func (ic *InteractionContext) GetCustomID() string {
	if ic.IsComponent() {
		return ic.Interaction.MessageComponentData().CustomID
	}
	return ""
}

// GetCommandName returns the command name for slash commands
func (ic *InteractionContext) GetCommandName() string {
	if ic.IsCommand() {
		return ic.Interaction.ApplicationCommandData().Name
	}
	return ""
}

// GetSubcommand returns the subcommand name if present
func (ic *InteractionContext) GetSubcommand() string {
	return ic.GetStringParam("subcommand")
}

// String describes the interaction for logs
func (ic *InteractionContext) String() string {
	switch {
	case ic.IsCommand():
		if sub := ic.GetSubcommand(); sub != "" {
			return fmt.Sprintf("command %s/%s", ic.GetCommandName(), sub)
		}
		return "command " + ic.GetCommandName()
	case ic.IsComponent():
		return "component " + ic.GetCustomID()
	default:
		return "interaction"
	}
}
