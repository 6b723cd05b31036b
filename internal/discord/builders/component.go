package builders

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
)

const (
	// MaxRows is Discord's limit of action rows per message
	MaxRows = 5
	// MaxPerRow is Discord's limit of buttons per action row
	MaxPerRow = 5
)

// ComponentBuilder builds Discord message components
type ComponentBuilder struct {
	rows       []discordgo.MessageComponent
	currentRow []discordgo.MessageComponent
	customIDs  *core.CustomIDBuilder
}

// NewComponentBuilder creates a new component builder
func NewComponentBuilder(customIDs *core.CustomIDBuilder) *ComponentBuilder {
	return &ComponentBuilder{
		currentRow: make([]discordgo.MessageComponent, 0, MaxPerRow),
		customIDs:  customIDs,
	}
}

// Button adds a button for action on target to the current row
func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, action, target string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: b.customIDs.Encode(action, target, args...),
	})
	return b
}

// DisabledButton adds a button that cannot be clicked
func (b *ComponentBuilder) DisabledButton(label string, style discordgo.ButtonStyle, action, target string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: b.customIDs.Encode(action, target, args...),
		Disabled: true,
	})
	return b
}

// SelectMenu adds a select menu on its own row
func (b *ComponentBuilder) SelectMenu(placeholder, action, target string, options []SelectOption) *ComponentBuilder {
	discordOptions := make([]discordgo.SelectMenuOption, len(options))
	for i, opt := range options {
		discordOptions[i] = discordgo.SelectMenuOption{
			Label:       opt.Label,
			Value:       opt.Value,
			Description: opt.Description,
			Default:     opt.Default,
		}
	}

	b.NewRow()
	b.addComponent(discordgo.SelectMenu{
		CustomID:    b.customIDs.Encode(action, target),
		Placeholder: placeholder,
		Options:     discordOptions,
	})
	return b.NewRow()
}

// NewRow starts a new action row
func (b *ComponentBuilder) NewRow() *ComponentBuilder {
	if len(b.currentRow) > 0 {
		b.rows = append(b.rows, discordgo.ActionsRow{
			Components: b.currentRow,
		})
		b.currentRow = make([]discordgo.MessageComponent, 0, MaxPerRow)
	}
	return b
}

// RowCount returns the number of rows built so far, including the open one
func (b *ComponentBuilder) RowCount() int {
	if len(b.currentRow) > 0 {
		return len(b.rows) + 1
	}
	return len(b.rows)
}

// Build returns the built components. Rows beyond Discord's limit are dropped.
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.NewRow()
	if len(b.rows) > MaxRows {
		return b.rows[:MaxRows]
	}
	return b.rows
}

// addComponent adds a component to the current row
func (b *ComponentBuilder) addComponent(component discordgo.MessageComponent) {
	if len(b.currentRow) >= MaxPerRow {
		b.NewRow()
	}

	b.currentRow = append(b.currentRow, component)
}

// SelectOption represents an option in a select menu
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}
