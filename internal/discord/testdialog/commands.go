package testdialog

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

// CommandName is the slash command and custom ID domain of the test dialog
const CommandName = "test"

// Subcommands
const (
	SubcommandRoll    = "roll"
	SubcommandTarget  = "target"
	SubcommandHistory = "history"
)

// Roll options
const (
	OptionSubject     = "subject"
	OptionDifficulty  = "difficulty"
	OptionModifier    = "modifier"
	OptionTitle       = "title"
	OptionRollMode    = "roll_mode"
	OptionSkipTargets = "skip_targets"
	OptionBypass      = "bypass"

	OptionActor = "actor"
	OptionClear = "clear"
)

// maxChoices is Discord's limit on option choices
const maxChoices = 25

// Command builds the /test command definition. actors become the choices of
// the target subcommand.
func Command(actors []dialog.Actor) *discordgo.ApplicationCommand {
	difficulties := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(dialog.Difficulties))
	for _, info := range dialog.Difficulties {
		difficulties = append(difficulties, &discordgo.ApplicationCommandOptionChoice{
			Name:  info.Name,
			Value: string(info.Key),
		})
	}

	modes := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(dialog.RollModes))
	for _, mode := range dialog.RollModes {
		modes = append(modes, &discordgo.ApplicationCommandOptionChoice{
			Name:  rollModeLabel(mode),
			Value: string(mode),
		})
	}

	targets := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(actors))
	for _, actor := range actors {
		if len(targets) == maxChoices {
			break
		}
		targets = append(targets, &discordgo.ApplicationCommandOptionChoice{
			Name:  actor.Name,
			Value: actor.ID,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Configure and resolve tests",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandRoll,
				Description: "Open a test dialog",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionSubject,
						Description: "What is being tested, e.g. Athletics",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionDifficulty,
						Description: "Starting difficulty",
						Choices:     difficulties,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        OptionModifier,
						Description: "Starting modifier",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionTitle,
						Description: "Replace the dialog title",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionRollMode,
						Description: "Who sees the result",
						Choices:     modes,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        OptionSkipTargets,
						Description: "Ignore the current targets",
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        OptionBypass,
						Description: "Resolve immediately without a dialog",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandTarget,
				Description: "Toggle a target for open and future tests",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionActor,
						Description: "Actor to toggle",
						Choices:     targets,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        OptionClear,
						Description: "Clear all targets first",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandHistory,
				Description: "Show your recent test results",
			},
		},
	}
}
