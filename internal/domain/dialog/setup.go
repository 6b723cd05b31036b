package dialog

import (
	"context"
	"fmt"
	"log"
)

// DefaultTitle is used when the caller does not replace the title
const DefaultTitle = "Test"

// Actor is the entity making the test
type Actor struct {
	ID      string
	Name    string
	TokenID string
	SceneID string
	// DefendingAgainst actors are responding to another test and get no targets
	DefendingAgainst bool
}

// Speaker is the stored reference to the acting entity
type Speaker struct {
	ActorID string `json:"actor_id,omitempty"`
	TokenID string `json:"token_id,omitempty"`
	SceneID string `json:"scene_id,omitempty"`
	Alias   string `json:"alias,omitempty"`
}

// Target is a selected target of the test
type Target struct {
	TokenID string `json:"token_id"`
	ActorID string `json:"actor_id,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Context carries arbitrary values for scripts and the test result
type Context struct {
	// Tags are short labels shown below the test result
	Tags map[string]string `json:"tags,omitempty"`
	// Text holds longer notes shown below the test result
	Text        map[string]string `json:"text,omitempty"`
	Values      map[string]any    `json:"values,omitempty"`
	SkipTargets bool              `json:"skip_targets,omitempty"`
	Breakdown   []string          `json:"breakdown,omitempty"`
}

func (c Context) clone() Context {
	out := Context{
		SkipTargets: c.SkipTargets,
		Tags:        make(map[string]string, len(c.Tags)),
		Text:        make(map[string]string, len(c.Text)),
		Values:      make(map[string]any, len(c.Values)),
		Breakdown:   append([]string(nil), c.Breakdown...),
	}
	for k, v := range c.Tags {
		out.Tags[k] = v
	}
	for k, v := range c.Text {
		out.Text[k] = v
	}
	for k, v := range c.Values {
		out.Values[k] = v
	}
	return out
}

// Data is everything about a test that is not a composable field
type Data struct {
	Title   string
	Subject string
	Speaker *Speaker
	Targets []Target
	Context Context
	Scripts []Script
}

// Request is the construction input of a dialog
type Request struct {
	Data   Data
	Fields Fields
}

// ScriptFilter selects scripts from a source
type ScriptFilter func(Script) bool

// ScriptSource returns the ordered dialog scripts of an entity
type ScriptSource interface {
	Scripts(ctx context.Context, entityID string, filter ScriptFilter) ([]Script, error)
}

// TargetProvider returns the currently selected targets
type TargetProvider interface {
	Targets(ctx context.Context) ([]Target, error)
}

// ActorResolver resolves a stored speaker reference to an actor
type ActorResolver interface {
	Actor(ctx context.Context, speaker Speaker) (*Actor, error)
}

// TitleOptions controls the dialog title
type TitleOptions struct {
	Replace string
	Append  string
}

// SetupOptions are the caller's choices when preparing a dialog
type SetupOptions struct {
	Fields      Fields
	Context     *Context
	Title       TitleOptions
	SkipTargets bool
}

// SetupDeps are the collaborators Setup reads from
type SetupDeps struct {
	Scripts ScriptSource
	Targets TargetProvider
}

// TargeterOnly selects scripts that apply to tests made against their owner
func TargeterOnly(s Script) bool { return s.Targeter }

// ExcludeTargeter selects scripts that apply to the owner's own tests
func ExcludeTargeter(s Script) bool { return !s.Targeter }

// Setup assembles the construction input for a test made by actor about
// subject. Targets' targeter scripts come first, then the actor's own
// non-targeter scripts.
func Setup(ctx context.Context, deps SetupDeps, actor *Actor, subject string, opts SetupOptions) (*Request, error) {
	log.Printf("TestDialog - Setup Dialog Data: actor=%v subject=%q skipTargets=%v", actorID(actor), subject, opts.SkipTargets)

	req := &Request{
		Fields: Fields{},
	}
	if opts.Fields != nil {
		req.Fields.Merge(opts.Fields)
	}

	if actor != nil {
		req.Data.Speaker = &Speaker{
			ActorID: actor.ID,
			TokenID: actor.TokenID,
			SceneID: actor.SceneID,
			Alias:   actor.Name,
		}
		// Only tokens live on a scene
		if actor.TokenID == "" {
			req.Data.Speaker.SceneID = ""
		}
	}

	if opts.Context != nil {
		req.Data.Context = opts.Context.clone()
	} else {
		req.Data.Context = Context{}.clone()
	}
	req.Data.Context.SkipTargets = opts.SkipTargets

	title := DefaultTitle
	if opts.Title.Replace != "" {
		title = opts.Title.Replace
	}
	req.Data.Title = title + opts.Title.Append
	req.Data.Subject = subject

	if req.Fields.String(FieldDifficulty) == "" {
		req.Fields[FieldDifficulty] = string(DefaultDifficulty)
	}

	if !opts.SkipTargets && (actor == nil || !actor.DefendingAgainst) && deps.Targets != nil {
		targets, err := deps.Targets.Targets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get targets: %w", err)
		}
		req.Data.Targets = ExcludeSpeaker(targets, req.Data.Speaker)
	}

	scripts, err := collectScripts(ctx, deps.Scripts, actor, req.Data.Targets, opts.SkipTargets)
	if err != nil {
		return nil, err
	}
	req.Data.Scripts = scripts

	log.Printf("TestDialog - Dialog Data: title=%q targets=%d scripts=%d", req.Data.Title, len(req.Data.Targets), len(req.Data.Scripts))
	return req, nil
}

func collectScripts(ctx context.Context, source ScriptSource, actor *Actor, targets []Target, skipTargets bool) ([]Script, error) {
	if source == nil {
		return nil, nil
	}

	var scripts []Script
	if !skipTargets {
		for _, t := range targets {
			if t.ActorID == "" {
				continue
			}
			found, err := source.Scripts(ctx, t.ActorID, TargeterOnly)
			if err != nil {
				return nil, fmt.Errorf("failed to get scripts for target %s: %w", t.ActorID, err)
			}
			scripts = append(scripts, found...)
		}
	}

	if actor != nil {
		own, err := source.Scripts(ctx, actor.ID, ExcludeTargeter)
		if err != nil {
			return nil, fmt.Errorf("failed to get scripts for actor %s: %w", actor.ID, err)
		}
		scripts = append(scripts, own...)
	}

	return CloneScripts(scripts), nil
}

// ExcludeSpeaker returns targets without the speaker's own token
func ExcludeSpeaker(targets []Target, speaker *Speaker) []Target {
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if speaker != nil && speaker.TokenID != "" && t.TokenID == speaker.TokenID {
			continue
		}
		out = append(out, t)
	}
	return out
}

func actorID(actor *Actor) string {
	if actor == nil {
		return "<none>"
	}
	return actor.ID
}
