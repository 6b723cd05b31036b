// Package testdialog exposes test dialogs through the /test slash command and
// message components.
package testdialog

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/KirkDiggler/dnd-test-dialog/internal/events"
	testdialogService "github.com/KirkDiggler/dnd-test-dialog/internal/services/testdialog"
)

// DefaultWaitTimeout stays below the 15 minute lifetime of an interaction token
const DefaultWaitTimeout = 14 * time.Minute

// maxHistory is the number of results shown by /test history
const maxHistory = 10

// ActorDirectory maps Discord users and command choices to actors
type ActorDirectory interface {
	ActorForUser(userID string) (*dialog.Actor, error)
	Target(actorID string) (dialog.Target, error)
}

// TargetSelection is the shared target selection
type TargetSelection interface {
	Targets(ctx context.Context) ([]dialog.Target, error)
	Set(targets []dialog.Target)
}

// openDialog is a dialog message this handler owns
type openDialog struct {
	owner       string
	channelID   string
	session     core.Session
	interaction *discordgo.Interaction
}

// Handler serves the /test command
type Handler struct {
	service     testdialogService.Service
	actors      ActorDirectory
	selection   TargetSelection
	bus         *events.Bus
	renderer    *Renderer
	waitTimeout time.Duration

	mu   sync.Mutex
	open map[string]*openDialog
	// waiters lets tests wait for background result publishing
	waiters sync.WaitGroup
}

// HandlerConfig holds configuration for the handler
type HandlerConfig struct {
	Service     testdialogService.Service
	Actors      ActorDirectory
	Selection   TargetSelection
	Bus         *events.Bus
	WaitTimeout time.Duration
}

// NewHandler creates a new test dialog handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Service == nil {
		panic("service is required")
	}
	if cfg.Actors == nil {
		panic("actor directory is required")
	}
	if cfg.Selection == nil {
		panic("target selection is required")
	}

	timeout := cfg.WaitTimeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	return &Handler{
		service:     cfg.Service,
		actors:      cfg.Actors,
		selection:   cfg.Selection,
		bus:         cfg.Bus,
		renderer:    NewRenderer(core.NewCustomIDBuilder(CommandName)),
		waitTimeout: timeout,
		open:        make(map[string]*openDialog),
	}
}

// Register adds the /test routes to the pipeline
func (h *Handler) Register(pipeline *core.Pipeline) {
	router := core.NewRouter(CommandName, pipeline)

	router.
		SubcommandFunc(SubcommandRoll, h.handleRoll).
		SubcommandFunc(SubcommandTarget, h.handleTarget).
		SubcommandFunc(SubcommandHistory, h.handleHistory).
		ComponentFunc(ActionDifficulty, h.handleSelect(dialog.FieldDifficulty)).
		ComponentFunc(ActionRollMode, h.handleSelect(dialog.FieldRollMode)).
		ComponentFunc(ActionAdjust, h.handleAdjust).
		ComponentFunc(ActionState, h.handleState).
		ComponentFunc(ActionScript, h.handleScript).
		ComponentFunc(ActionRoll, h.handleSubmit).
		ComponentFunc(ActionCancel, h.handleCancel)

	router.Register()

	if h.bus != nil {
		h.bus.Subscribe(events.EventTypeDialogClosed,
			events.NewListener("discord-testdialog", events.PriorityLast, h.onClosed))
	}
}

// Wait blocks until background result publishing has finished
func (h *Handler) Wait() {
	h.waiters.Wait()
}

func (h *Handler) handleRoll(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	actor, err := h.actorFor(ctx.UserID)
	if err != nil {
		return nil, err
	}

	opts := dialog.SetupOptions{
		Fields:      dialog.Fields{},
		SkipTargets: ctx.GetBoolParam(OptionSkipTargets),
	}
	if difficulty := ctx.GetStringParam(OptionDifficulty); difficulty != "" {
		opts.Fields[dialog.FieldDifficulty] = difficulty
	}
	if ctx.HasParam(OptionModifier) {
		opts.Fields[dialog.FieldModifier] = ctx.GetIntParam(OptionModifier)
	}
	if title := ctx.GetStringParam(OptionTitle); title != "" {
		opts.Title.Replace = title
	}

	req, err := h.service.Setup(ctx.Context, &testdialogService.SetupInput{
		ActorID: actor.ID,
		Subject: ctx.GetStringParam(OptionSubject),
		Options: opts,
	})
	if err != nil {
		return nil, err
	}

	awaitOpts := &testdialogService.AwaitOptions{
		Actor:    actor,
		RollMode: dialog.RollMode(ctx.GetStringParam(OptionRollMode)),
	}

	if ctx.GetBoolParam(OptionBypass) {
		result, err := h.service.Bypass(ctx.Context, req, awaitOpts)
		if err != nil {
			return nil, err
		}
		response := core.NewEmbedResponse(h.renderer.ResultEmbed(result))
		if !isPublic(result) {
			response.AsEphemeral()
		}
		return core.Reply(response), nil
	}

	handle, err := h.service.AwaitSubmit(ctx.Context, req, awaitOpts)
	if err != nil {
		return nil, err
	}
	if handle.Snapshot.Closed {
		return core.Reply(core.NewEphemeralResponse("The test was called off.")), nil
	}

	tracked := &openDialog{
		owner:       ctx.UserID,
		channelID:   ctx.ChannelID,
		session:     ctx.Session,
		interaction: ctx.Interaction.Interaction,
	}
	h.mu.Lock()
	h.open[handle.ID] = tracked
	h.mu.Unlock()

	h.waiters.Add(1)
	go h.await(handle, tracked)

	embed, components := h.renderer.BuildMessage(handle.Snapshot)
	return core.Reply(core.NewPanel(embed, components)), nil
}

// await publishes the result once the dialog is submitted and cancels
// dialogs nobody finished in time
func (h *Handler) await(handle *testdialogService.Handle, tracked *openDialog) {
	defer h.waiters.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.waitTimeout)
	defer cancel()

	result, outcome, err := handle.Submission.Wait(ctx)
	if err != nil {
		log.Printf("TestDialog: dialog %s timed out, cancelling", handle.ID)
		if err := h.service.Cancel(context.Background(), handle.ID); err != nil && !dnderr.IsNotFound(err) {
			log.Printf("TestDialog: failed to cancel dialog %s: %v", handle.ID, err)
		}
		expired := core.NewClosedUpdate("The test expired.").Edit()
		if _, err := tracked.session.InteractionResponseEdit(tracked.interaction, expired); err != nil {
			log.Printf("TestDialog: failed to mark dialog %s expired: %v", handle.ID, err)
		}
		return
	}

	if outcome != dialog.OutcomeSubmitted {
		return
	}

	embed := h.renderer.ResultEmbed(result)
	if isPublic(result) {
		if _, err := tracked.session.ChannelMessageSendComplex(tracked.channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
		}); err != nil {
			log.Printf("TestDialog: failed to post result %s: %v", result.ID, err)
		}
		return
	}

	if _, err := tracked.session.FollowupMessageCreate(tracked.interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Printf("TestDialog: failed to send result %s: %v", result.ID, err)
	}
}

func (h *Handler) handleSelect(field string) func(*core.InteractionContext) (*core.HandlerResult, error) {
	return func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		id, err := h.component(ctx)
		if err != nil {
			return nil, err
		}
		values := ctx.Values()
		if len(values) == 0 {
			return nil, core.NewValidationError("Pick an option.")
		}

		snap, err := h.service.Input(ctx.Context, id.Target, field, values[0])
		if err != nil {
			return nil, err
		}
		return h.update(snap), nil
	}
}

func (h *Handler) handleAdjust(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := h.component(ctx)
	if err != nil {
		return nil, err
	}
	delta, err := id.IntArg(1)
	if err != nil {
		return nil, core.NewValidationError("Invalid adjustment.")
	}

	snap, err := h.service.Adjust(ctx.Context, id.Target, id.Arg(0), delta)
	if err != nil {
		return nil, err
	}
	return h.update(snap), nil
}

func (h *Handler) handleState(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := h.component(ctx)
	if err != nil {
		return nil, err
	}

	state := id.Arg(0)
	if state == stateAuto {
		state = string(dialog.StateUnset)
	}

	snap, err := h.service.Input(ctx.Context, id.Target, dialog.FieldState, state)
	if err != nil {
		return nil, err
	}
	return h.update(snap), nil
}

func (h *Handler) handleScript(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := h.component(ctx)
	if err != nil {
		return nil, err
	}
	index, err := id.IntArg(0)
	if err != nil {
		return nil, core.NewValidationError("Invalid script.")
	}

	snap, err := h.service.ToggleScript(ctx.Context, id.Target, index)
	if err != nil {
		return nil, err
	}
	return h.update(snap), nil
}

func (h *Handler) handleSubmit(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := h.component(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.service.Submit(ctx.Context, id.Target)
	if err != nil {
		return nil, err
	}

	return core.Reply(core.NewClosedUpdate(fmt.Sprintf("Rolled %s.", testTitle(result.Title, result.Subject)))), nil
}

func (h *Handler) handleCancel(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	id, err := h.component(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.Cancel(ctx.Context, id.Target); err != nil {
		return nil, err
	}
	return core.Reply(core.NewClosedUpdate("Test cancelled.")), nil
}

func (h *Handler) handleTarget(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	current, err := h.selection.Targets(ctx.Context)
	if err != nil {
		return nil, err
	}
	if ctx.GetBoolParam(OptionClear) {
		current = nil
	}

	if actorID := ctx.GetStringParam(OptionActor); actorID != "" {
		target, err := h.actors.Target(actorID)
		if err != nil {
			return nil, err
		}
		current = toggleTarget(current, target)
	}
	h.selection.Set(current)

	snaps, err := h.service.UpdateTargets(ctx.Context)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		h.refresh(snap)
	}

	names := targetList(current)
	if names == "" {
		names = "none"
	}
	content := fmt.Sprintf("Targets: %s (%d open %s updated)", names, len(snaps), plural(len(snaps), "test", "tests"))
	return core.Reply(core.NewEphemeralResponse(content)), nil
}

func (h *Handler) handleHistory(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	actor, err := h.actorFor(ctx.UserID)
	if err != nil {
		return nil, err
	}

	results, err := h.service.ListResults(ctx.Context, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(results) > maxHistory {
		results = results[:maxHistory]
	}

	embed := h.renderer.HistoryEmbed(actor.Name, results)
	return core.Reply(core.NewEmbedResponse(embed).AsEphemeral()), nil
}

// component parses the custom ID and checks the user owns the dialog
func (h *Handler) component(ctx *core.InteractionContext) (*core.CustomID, error) {
	id, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return nil, core.NewValidationError("Invalid interaction.")
	}

	h.mu.Lock()
	tracked, ok := h.open[id.Target]
	h.mu.Unlock()

	if ok && tracked.owner != ctx.UserID {
		return nil, core.NewForbiddenError("Only the roller can change this test.")
	}
	return id, nil
}

func (h *Handler) actorFor(userID string) (*dialog.Actor, error) {
	actor, err := h.actors.ActorForUser(userID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil, core.NewUserError("You are not playing an actor here.", core.ErrorCodeNotFound)
		}
		return nil, err
	}
	return actor, nil
}

func (h *Handler) update(snap *dialog.Snapshot) *core.HandlerResult {
	if snap.Closed {
		return core.Reply(core.NewClosedUpdate("The test was called off."))
	}
	embed, components := h.renderer.BuildMessage(snap)
	return core.Reply(core.NewPanelUpdate(embed, components))
}

// refresh edits the message of a dialog changed outside its own interaction
func (h *Handler) refresh(snap *dialog.Snapshot) {
	if snap.Closed {
		return
	}

	h.mu.Lock()
	tracked, ok := h.open[snap.ID]
	h.mu.Unlock()
	if !ok {
		return
	}

	embed, components := h.renderer.BuildMessage(snap)
	if _, err := tracked.session.InteractionResponseEdit(tracked.interaction, core.NewPanelUpdate(embed, components).Edit()); err != nil {
		log.Printf("TestDialog: failed to refresh dialog %s: %v", snap.ID, err)
	}
}

func (h *Handler) onClosed(e events.Event) error {
	h.mu.Lock()
	delete(h.open, e.GetDialogID())
	h.mu.Unlock()
	return nil
}

// tracked lists the dialog IDs with an open message
func (h *Handler) tracked() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.open))
	for id := range h.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isPublic(result *dialog.Result) bool {
	mode := dialog.RollMode(result.Fields.String(dialog.FieldRollMode))
	return mode == "" || mode == dialog.RollModePublic
}

func toggleTarget(targets []dialog.Target, target dialog.Target) []dialog.Target {
	out := make([]dialog.Target, 0, len(targets)+1)
	removed := false
	for _, t := range targets {
		if strings.EqualFold(t.TokenID, target.TokenID) {
			removed = true
			continue
		}
		out = append(out, t)
	}
	if !removed {
		out = append(out, target)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
