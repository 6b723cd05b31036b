package testdialog

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/KirkDiggler/dnd-test-dialog/internal/events"
)

// UpdateTargets pushes the current target selection into every open dialog
// that tracks targets and re-renders them. Snapshots are returned in id order.
func (s *service) UpdateTargets(ctx context.Context) (snaps []*dialog.Snapshot, err error) {
	ctx, span := s.tracer.Start(ctx, "testdialog.UpdateTargets")
	defer func() { endSpan(span, err) }()

	if s.targets == nil {
		return nil, dnderr.FailedPrecondition("no target provider configured")
	}

	targets, err := s.targets.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}

	ids := s.ActiveIDs()
	entries := make([]*entry, 0, len(ids))
	for _, id := range ids {
		e, lookupErr := s.lookup(id)
		if lookupErr != nil {
			// Closed since ActiveIDs
			continue
		}
		if e.tracksTargets {
			entries = append(entries, e)
		}
	}

	results := make([]*dialog.Snapshot, len(entries))
	closed := make([]bool, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			var err error
			closed[i], err = s.withEntry(e, func(d *dialog.Dialog) error {
				if d.Closed() {
					return nil
				}
				d.SetTargets(dialog.ExcludeSpeaker(targets, d.Speaker()))
				snap, renderErr := d.Render(gctx)
				if renderErr != nil {
					return fmt.Errorf("failed to render dialog %s: %w", d.ID(), renderErr)
				}
				results[i] = snap
				return nil
			})
			return err
		})
	}
	err = g.Wait()

	for i, snap := range results {
		if snap != nil {
			s.emit(events.NewDialogRenderedEvent(entries[i].dialog, snap))
			snaps = append(snaps, snap)
		}
		s.emitClosed(entries[i].dialog, closed[i])
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("dialog.updated", len(snaps)))
	log.Printf("TestDialog: updated targets of %d dialogs", len(snaps))
	return snaps, nil
}
