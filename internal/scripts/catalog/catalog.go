// Package catalog loads actors and their Lua dialog scripts from YAML and
// serves them to dialog setup.
package catalog

import (
	"context"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/KirkDiggler/dnd-test-dialog/internal/scripts/luascript"
)

// File is the on-disk catalog layout
type File struct {
	Actors []ActorEntry `yaml:"actors"`
}

// ActorEntry is one actor in the catalog file
type ActorEntry struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Token     string        `yaml:"token"`
	Scene     string        `yaml:"scene"`
	User      string        `yaml:"user"`
	Defending bool          `yaml:"defending"`
	Scripts   []ScriptEntry `yaml:"scripts"`
}

// ScriptEntry is one scripted rule owned by an actor
type ScriptEntry struct {
	Key      string           `yaml:"key"`
	Label    string           `yaml:"label"`
	Targeter bool             `yaml:"targeter"`
	Source   luascript.Source `yaml:",inline"`
}

// Catalog is an immutable set of actors and compiled scripts
type Catalog struct {
	actors  map[string]*dialog.Actor
	byUser  map[string]string
	scripts map[string][]dialog.Script
	order   []string
}

// Load reads and compiles the catalog at path
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, dnderr.InvalidArgument("catalog path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to read catalog %s", path)
	}

	c, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	log.Printf("Catalog: loaded %d actors from %s", len(c.order), path)
	return c, nil
}

// Parse compiles a catalog from YAML bytes
func Parse(raw []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "failed to parse catalog")
	}
	return New(file)
}

// New compiles a catalog from its decoded form
func New(file File) (*Catalog, error) {
	c := &Catalog{
		actors:  make(map[string]*dialog.Actor, len(file.Actors)),
		byUser:  make(map[string]string),
		scripts: make(map[string][]dialog.Script, len(file.Actors)),
	}

	for _, entry := range file.Actors {
		if entry.ID == "" {
			return nil, dnderr.InvalidArgument("catalog actor is missing an id")
		}
		if _, exists := c.actors[entry.ID]; exists {
			return nil, dnderr.AlreadyExistsf("catalog actor %s is defined twice", entry.ID)
		}

		c.actors[entry.ID] = &dialog.Actor{
			ID:               entry.ID,
			Name:             entry.Name,
			TokenID:          entry.Token,
			SceneID:          entry.Scene,
			DefendingAgainst: entry.Defending,
		}
		c.order = append(c.order, entry.ID)
		if entry.User != "" {
			c.byUser[entry.User] = entry.ID
		}

		for _, se := range entry.Scripts {
			script, err := luascript.Compile(se.Key, se.Label, se.Targeter, se.Source)
			if err != nil {
				return nil, dnderr.Wrapf(err, "actor %s", entry.ID)
			}
			script.SourceID = entry.ID
			c.scripts[entry.ID] = append(c.scripts[entry.ID], script)
		}
	}

	return c, nil
}

// Scripts implements dialog.ScriptSource. Unknown entities have no scripts.
func (c *Catalog) Scripts(_ context.Context, entityID string, filter dialog.ScriptFilter) ([]dialog.Script, error) {
	var out []dialog.Script
	for _, s := range c.scripts[entityID] {
		if filter == nil || filter(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Actor implements dialog.ActorResolver
func (c *Catalog) Actor(_ context.Context, speaker dialog.Speaker) (*dialog.Actor, error) {
	return c.lookup(speaker.ActorID)
}

// ActorForUser returns the actor played by a Discord user
func (c *Catalog) ActorForUser(userID string) (*dialog.Actor, error) {
	id, ok := c.byUser[userID]
	if !ok {
		return nil, dnderr.NotFoundf("no actor for user %s", userID).
			WithMeta("user_id", userID)
	}
	return c.lookup(id)
}

// Actors returns every actor in file order
func (c *Catalog) Actors() []dialog.Actor {
	out := make([]dialog.Actor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.actors[id])
	}
	return out
}

// Target builds a dialog target for an actor
func (c *Catalog) Target(actorID string) (dialog.Target, error) {
	a, err := c.lookup(actorID)
	if err != nil {
		return dialog.Target{}, err
	}
	return dialog.Target{TokenID: a.TokenID, ActorID: a.ID, Name: a.Name}, nil
}

func (c *Catalog) lookup(id string) (*dialog.Actor, error) {
	a, ok := c.actors[id]
	if !ok {
		return nil, dnderr.NotFoundf("actor %s not found", id).WithMeta("actor_id", id)
	}
	actor := *a
	return &actor, nil
}

// Selection is the mutable set of targets the table has selected. It
// implements dialog.TargetProvider.
type Selection struct {
	mu      sync.RWMutex
	targets []dialog.Target
}

// NewSelection creates a selection holding targets
func NewSelection(targets ...dialog.Target) *Selection {
	return &Selection{targets: append([]dialog.Target(nil), targets...)}
}

// Targets returns a copy of the selected targets
func (s *Selection) Targets(_ context.Context) ([]dialog.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dialog.Target(nil), s.targets...), nil
}

// Set replaces the selection
func (s *Selection) Set(targets []dialog.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append([]dialog.Target(nil), targets...)
}
