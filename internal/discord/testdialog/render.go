package testdialog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/builders"
	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

// Component actions
const (
	ActionDifficulty = "difficulty"
	ActionRollMode   = "rollmode"
	ActionAdjust     = "adjust"
	ActionState      = "state"
	ActionScript     = "script"
	ActionRoll       = "roll"
	ActionCancel     = "cancel"

	// stateAuto clears a forced state
	stateAuto = "auto"
)

// MaxScriptButtons is the number of script toggles that fit on one row
const MaxScriptButtons = builders.MaxPerRow

// maxFieldLength is Discord's limit for an embed field value
const maxFieldLength = 1024


var rollModeNames = map[dialog.RollMode]string{
	dialog.RollModePublic: "Public Roll",
	dialog.RollModeGM:     "GM Roll",
	dialog.RollModeBlind:  "Blind Roll",
	dialog.RollModeSelf:   "Self Roll",
}

// Renderer turns dialog snapshots and results into Discord messages
type Renderer struct {
	customIDs *core.CustomIDBuilder
}

// NewRenderer creates a renderer whose components route to customIDs' domain
func NewRenderer(customIDs *core.CustomIDBuilder) *Renderer {
	return &Renderer{customIDs: customIDs}
}

// BuildMessage renders an open dialog
func (r *Renderer) BuildMessage(snap *dialog.Snapshot) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	return r.buildEmbed(snap), r.buildComponents(snap)
}

func (r *Renderer) buildEmbed(snap *dialog.Snapshot) *discordgo.MessageEmbed {
	embed := builders.NewEmbed().
		Title(testTitle(snap.Title, snap.Subject)).
		Color(stateColor(snap.State)).
		Field("Difficulty", difficultyLabel(dialog.Difficulty(snap.Fields.String(dialog.FieldDifficulty))), true).
		Field("Modifier", signed(snap.Fields.Int(dialog.FieldModifier)), true).
		Field("Success Level", signed(snap.Fields.Int(dialog.FieldSuccessLevel)), true).
		Field("State", stateLabel(snap.State, snap.ForcedState), true).
		Field("Roll Mode", rollModeLabel(dialog.RollMode(snap.Fields.String(dialog.FieldRollMode))), true).
		Field("Targets", targetList(snap.Targets), false).
		Field("Scripts", scriptList(snap.VisibleScripts()), false).
		Field("Breakdown", truncate(strings.Join(snap.Breakdown, "\n")), false)

	if visible := len(snap.VisibleScripts()); visible > MaxScriptButtons {
		embed.Footer(fmt.Sprintf("Only the first %d scripts have buttons", MaxScriptButtons))
	}
	return embed.Build()
}

func (r *Renderer) buildComponents(snap *dialog.Snapshot) []discordgo.MessageComponent {
	b := builders.NewComponentBuilder(r.customIDs)

	difficulty := dialog.Difficulty(snap.Fields.String(dialog.FieldDifficulty))
	difficulties := make([]builders.SelectOption, 0, len(dialog.Difficulties))
	for _, info := range dialog.Difficulties {
		difficulties = append(difficulties, builders.SelectOption{
			Label:   fmt.Sprintf("%s (%s)", info.Name, signed(info.Modifier)),
			Value:   string(info.Key),
			Default: info.Key == difficulty,
		})
	}
	b.SelectMenu("Difficulty", ActionDifficulty, snap.ID, difficulties)

	rollMode := dialog.RollMode(snap.Fields.String(dialog.FieldRollMode))
	modes := make([]builders.SelectOption, 0, len(dialog.RollModes))
	for _, mode := range dialog.RollModes {
		modes = append(modes, builders.SelectOption{
			Label:   rollModeLabel(mode),
			Value:   string(mode),
			Default: mode == rollMode,
		})
	}
	b.SelectMenu("Roll mode", ActionRollMode, snap.ID, modes)

	b.Button("-10", discordgo.SecondaryButton, ActionAdjust, snap.ID, dialog.FieldModifier, "-10").
		Button("+10", discordgo.SecondaryButton, ActionAdjust, snap.ID, dialog.FieldModifier, "10").
		Button("SL -1", discordgo.SecondaryButton, ActionAdjust, snap.ID, dialog.FieldSuccessLevel, "-1").
		Button("SL +1", discordgo.SecondaryButton, ActionAdjust, snap.ID, dialog.FieldSuccessLevel, "1").
		Button("Roll", discordgo.SuccessButton, ActionRoll, snap.ID).
		NewRow()

	for _, choice := range []struct {
		label string
		value string
		on    bool
	}{
		{"Advantage", string(dialog.StateAdvantage), snap.ForcedState == dialog.StateAdvantage},
		{"None", string(dialog.StateNone), snap.ForcedState == dialog.StateNone},
		{"Disadvantage", string(dialog.StateDisadvantage), snap.ForcedState == dialog.StateDisadvantage},
		{"Auto", stateAuto, snap.ForcedState == dialog.StateUnset},
	} {
		style := discordgo.SecondaryButton
		if choice.on {
			style = discordgo.PrimaryButton
		}
		b.Button(choice.label, style, ActionState, snap.ID, choice.value)
	}
	b.Button("Cancel", discordgo.DangerButton, ActionCancel, snap.ID).NewRow()

	shown := 0
	for _, sv := range snap.VisibleScripts() {
		if shown == MaxScriptButtons {
			break
		}
		b.Button(scriptButtonLabel(sv), scriptStyle(sv), ActionScript, snap.ID, fmt.Sprint(sv.Index))
		shown++
	}

	return b.Build()
}

// ResultEmbed renders a submitted test
func (r *Renderer) ResultEmbed(result *dialog.Result) *discordgo.MessageEmbed {
	heading := testTitle(result.Title, result.Subject)
	if result.Speaker != nil && result.Speaker.Alias != "" {
		heading = result.Speaker.Alias + ": " + heading
	}

	embed := builders.NewEmbed().
		Title(heading).
		Color(builders.ColorSuccess).
		Field("Difficulty", difficultyLabel(result.Difficulty()), true).
		Field("Modifier", signed(result.Modifier()), true).
		Field("Success Level", signed(result.Fields.Int(dialog.FieldSuccessLevel)), true).
		Field("State", title(string(result.State)), true).
		Field("Targets", targetList(result.Targets), false).
		Field("Active Scripts", strings.Join(result.ActiveScripts, ", "), false).
		Field("Tags", tagList(result.Context.Tags), false).
		Field("Notes", tagList(result.Context.Text), false).
		Field("Breakdown", truncate(strings.Join(result.Context.Breakdown, "\n")), false).
		Timestamp(result.ResolvedAt)

	return embed.Build()
}

// HistoryEmbed lists stored results
func (r *Renderer) HistoryEmbed(actorName string, results []*dialog.Result) *discordgo.MessageEmbed {
	embed := builders.NewEmbed().
		Title(fmt.Sprintf("Recent tests of %s", actorName)).
		Color(builders.ColorInfo)

	if len(results) == 0 {
		return embed.Description("No tests yet.").Build()
	}

	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("**%s** %s, %s, %s (%s)",
			testTitle(result.Title, result.Subject),
			difficultyLabel(result.Difficulty()),
			signed(result.Modifier()),
			title(string(result.State)),
			result.ResolvedAt.Format("Jan 2 15:04")))
	}
	return embed.Description(strings.Join(lines, "\n")).Build()
}

func testTitle(name, subject string) string {
	if subject == "" {
		return name
	}
	return name + " - " + subject
}

func signed(n int) string {
	return message.NewPrinter(language.English).Sprintf("%+d", n)
}

// title capitalizes words; a Caser must not be shared between goroutines
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func difficultyLabel(d dialog.Difficulty) string {
	info, ok := d.Info()
	if !ok {
		return string(d)
	}
	return fmt.Sprintf("%s (%s)", info.Name, signed(info.Modifier))
}

func rollModeLabel(mode dialog.RollMode) string {
	if name, ok := rollModeNames[mode]; ok {
		return name
	}
	return title(string(mode))
}

func stateLabel(state, forced dialog.State) string {
	label := title(string(state))
	if forced != dialog.StateUnset {
		label += " (forced)"
	}
	return label
}

func stateColor(state dialog.State) int {
	switch state {
	case dialog.StateAdvantage:
		return builders.ColorSuccess
	case dialog.StateDisadvantage:
		return builders.ColorWarning
	default:
		return builders.ColorInfo
	}
}

func targetList(targets []dialog.Target) string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		name := t.Name
		if name == "" {
			name = t.TokenID
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func scriptList(views []dialog.ScriptView) string {
	lines := make([]string, 0, len(views))
	for _, sv := range views {
		lines = append(lines, fmt.Sprintf("%s %s", scriptMarker(sv), sv.Label))
	}
	return truncate(strings.Join(lines, "\n"))
}

func scriptMarker(sv dialog.ScriptView) string {
	switch {
	case sv.Failed:
		return "⚠️"
	case sv.Active:
		return "✅"
	default:
		return "⬜"
	}
}

func scriptButtonLabel(sv dialog.ScriptView) string {
	label := sv.Label
	if len(label) > 60 {
		label = label[:57] + "..."
	}
	return label
}

func scriptStyle(sv dialog.ScriptView) discordgo.ButtonStyle {
	switch {
	case sv.Failed:
		return discordgo.DangerButton
	case sv.Active:
		return discordgo.PrimaryButton
	default:
		return discordgo.SecondaryButton
	}
}

func tagList(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, tags[k])
	}
	return truncate(strings.Join(values, ", "))
}

func truncate(s string) string {
	if len(s) <= maxFieldLength {
		return s
	}
	return s[:maxFieldLength-3] + "..."
}
