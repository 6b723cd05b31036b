package testresults

import (
	"context"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults Repository

// Repository stores finalized test results
type Repository interface {
	// Create stores a new result; results are never updated
	Create(ctx context.Context, result *dialog.Result) error
	Get(ctx context.Context, id string) (*dialog.Result, error)
	// ListByActor returns the stored results of the acting entity
	ListByActor(ctx context.Context, actorID string) ([]*dialog.Result, error)
}
