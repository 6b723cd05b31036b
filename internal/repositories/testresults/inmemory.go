package testresults

import (
	"context"
	"sync"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the result repository.
// Useful for testing and the resolve-test command.
type InMemoryRepository struct {
	mu      sync.RWMutex
	results map[string]*dialog.Result
	byActor map[string][]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		results: make(map[string]*dialog.Result),
		byActor: make(map[string][]string),
	}
}

// Create stores a new result
func (r *InMemoryRepository) Create(ctx context.Context, result *dialog.Result) error {
	if result == nil {
		return dnderr.InvalidArgument("result cannot be nil")
	}
	if result.ID == "" {
		return dnderr.InvalidArgument("result ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[result.ID]; exists {
		return dnderr.AlreadyExistsf("result with ID '%s' already exists", result.ID).
			WithMeta("result_id", result.ID)
	}

	r.results[result.ID] = copyResult(result)
	if result.Speaker != nil && result.Speaker.ActorID != "" {
		r.byActor[result.Speaker.ActorID] = append(r.byActor[result.Speaker.ActorID], result.ID)
	}

	return nil
}

// Get retrieves a result by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*dialog.Result, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("result ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result, exists := r.results[id]
	if !exists {
		return nil, dnderr.NotFoundf("result with ID '%s' not found", id).
			WithMeta("result_id", id)
	}

	return copyResult(result), nil
}

// ListByActor returns the actor's results, newest first
func (r *InMemoryRepository) ListByActor(ctx context.Context, actorID string) ([]*dialog.Result, error) {
	if actorID == "" {
		return nil, dnderr.InvalidArgument("actor ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*dialog.Result, 0, len(r.byActor[actorID]))
	for _, id := range r.byActor[actorID] {
		results = append(results, copyResult(r.results[id]))
	}

	return sortNewestFirst(results), nil
}

func copyResult(result *dialog.Result) *dialog.Result {
	out := *result
	out.Fields = result.Fields.Clone()
	out.Targets = append([]dialog.Target(nil), result.Targets...)
	out.ActiveScripts = append([]string(nil), result.ActiveScripts...)
	if result.Speaker != nil {
		speaker := *result.Speaker
		out.Speaker = &speaker
	}
	return &out
}
