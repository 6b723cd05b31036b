package testdialog

//go:generate mockgen -destination=mock/mock_service.go -package=mocktestdialog -source=service.go

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/dnd-test-dialog/internal/domain/dialog"
	dnderr "github.com/KirkDiggler/dnd-test-dialog/internal/errors"
	"github.com/KirkDiggler/dnd-test-dialog/internal/events"
	"github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults"
	"github.com/KirkDiggler/dnd-test-dialog/internal/telemetry"
	"github.com/KirkDiggler/dnd-test-dialog/internal/uuid"
)

// Service defines the test dialog service interface
type Service interface {
	// Setup assembles a dialog request for an actor testing a subject
	Setup(ctx context.Context, input *SetupInput) (*dialog.Request, error)

	// AwaitSubmit opens a dialog, runs its first pass and returns a handle
	// whose submission completes when the dialog is submitted or closed
	AwaitSubmit(ctx context.Context, req *dialog.Request, opts *AwaitOptions) (*Handle, error)

	// Bypass resolves a request without any user interaction
	Bypass(ctx context.Context, req *dialog.Request, opts *AwaitOptions) (*dialog.Result, error)

	// Render re-runs the pass of an open dialog
	Render(ctx context.Context, dialogID string) (*dialog.Snapshot, error)

	// Input records a user entry
	Input(ctx context.Context, dialogID, name string, value any) (*dialog.Snapshot, error)

	// Adjust adds delta to a numeric user entry
	Adjust(ctx context.Context, dialogID, name string, delta int) (*dialog.Snapshot, error)

	// ToggleScript applies a user click on a script
	ToggleScript(ctx context.Context, dialogID string, index int) (*dialog.Snapshot, error)

	// Submit finalizes an open dialog and stores its result
	Submit(ctx context.Context, dialogID string) (*dialog.Result, error)

	// Cancel closes an open dialog without a result
	Cancel(ctx context.Context, dialogID string) error

	// UpdateTargets pushes the current target selection into every open
	// dialog that tracks targets and returns the new snapshots
	UpdateTargets(ctx context.Context) ([]*dialog.Snapshot, error)

	// ActiveIDs lists the open dialogs
	ActiveIDs() []string

	// GetResult retrieves a stored result
	GetResult(ctx context.Context, resultID string) (*dialog.Result, error)

	// ListResults lists an actor's stored results, newest first
	ListResults(ctx context.Context, actorID string) ([]*dialog.Result, error)
}

// SetupInput contains data for preparing a dialog request
type SetupInput struct {
	// ActorID is the acting entity; empty means a test without an actor
	ActorID string
	Subject string
	Options dialog.SetupOptions
}

// AwaitOptions customize a single dialog
type AwaitOptions struct {
	// Actor overrides the actor resolved from the request's speaker
	Actor          *dialog.Actor
	RollMode       dialog.RollMode
	InitialTooltip string
	Scripts        []dialog.Script
	Extension      dialog.Extension
}

// Handle is returned to the requester of an interactive dialog
type Handle struct {
	ID         string
	Snapshot   *dialog.Snapshot
	Submission *dialog.Submission
}

type entry struct {
	mu     sync.Mutex
	dialog *dialog.Dialog
	// tracksTargets is false for dialogs created with SkipTargets or for
	// defending actors
	tracksTargets bool
}

type service struct {
	scripts       dialog.ScriptSource
	targets       dialog.TargetProvider
	actors        dialog.ActorResolver
	repository    testresults.Repository
	bus           *events.Bus
	uuidGenerator uuid.Generator
	rollMode      dialog.RollMode
	tracer        trace.Tracer
	now           func() time.Time

	// lock order: entry.mu before mu
	mu      sync.RWMutex
	dialogs map[string]*entry
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	ScriptSource  dialog.ScriptSource
	Targets       dialog.TargetProvider
	Actors        dialog.ActorResolver
	Repository    testresults.Repository
	Bus           *events.Bus
	UUIDGenerator uuid.Generator
	RollMode      dialog.RollMode
	Tracer        trace.Tracer
	Now           func() time.Time
}

// NewService creates a new test dialog service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Bus == nil {
		panic("event bus is required")
	}

	svc := &service{
		scripts:    cfg.ScriptSource,
		targets:    cfg.Targets,
		actors:     cfg.Actors,
		repository: cfg.Repository,
		bus:        cfg.Bus,
		rollMode:   cfg.RollMode,
		now:        cfg.Now,
		dialogs:    make(map[string]*entry),
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	if cfg.Tracer != nil {
		svc.tracer = cfg.Tracer
	} else {
		svc.tracer = telemetry.Tracer()
	}

	if svc.rollMode == "" {
		svc.rollMode = dialog.DefaultRollMode
	}

	return svc
}

// Setup assembles a dialog request for an actor testing a subject
func (s *service) Setup(ctx context.Context, input *SetupInput) (req *dialog.Request, err error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}

	ctx, span := s.tracer.Start(ctx, "testdialog.Setup", trace.WithAttributes(
		attribute.String("actor.id", input.ActorID),
		attribute.String("test.subject", input.Subject),
	))
	defer func() { endSpan(span, err) }()

	var actor *dialog.Actor
	if input.ActorID != "" {
		if s.actors == nil {
			return nil, dnderr.FailedPrecondition("no actor resolver configured")
		}
		actor, err = s.actors.Actor(ctx, dialog.Speaker{ActorID: input.ActorID})
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to resolve actor %s", input.ActorID)
		}
	}

	req, err = dialog.Setup(ctx, dialog.SetupDeps{Scripts: s.scripts, Targets: s.targets}, actor, input.Subject, input.Options)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to set up dialog")
	}

	span.SetAttributes(attribute.Int("dialog.scripts", len(req.Data.Scripts)))
	return req, nil
}

// AwaitSubmit opens a dialog and runs its first pass
func (s *service) AwaitSubmit(ctx context.Context, req *dialog.Request, opts *AwaitOptions) (handle *Handle, err error) {
	if req == nil {
		return nil, dnderr.InvalidArgument("request cannot be nil")
	}

	ctx, span := s.tracer.Start(ctx, "testdialog.AwaitSubmit")
	defer func() { endSpan(span, err) }()

	d, err := s.newDialog(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("dialog.id", d.ID()))

	e := &entry{
		dialog:        d,
		tracksTargets: !req.Data.Context.SkipTargets && (d.Actor() == nil || !d.Actor().DefendingAgainst),
	}

	s.mu.Lock()
	s.dialogs[d.ID()] = e
	s.mu.Unlock()

	id := d.ID()
	d.OnClose(func() { s.remove(id) })

	var snap *dialog.Snapshot
	closed, err := s.withEntry(e, func(d *dialog.Dialog) error {
		snap, err = d.Render(ctx)
		return err
	})
	if err != nil {
		s.emitClosed(d, closed)
		return nil, dnderr.Wrapf(err, "failed to render dialog %s", id)
	}
	s.emit(events.NewDialogRenderedEvent(d, snap))
	s.emitClosed(d, closed)

	log.Printf("TestDialog: opened dialog %s (%d scripts)", id, len(snap.Scripts))

	return &Handle{
		ID:         id,
		Snapshot:   snap,
		Submission: d.Submission(),
	}, nil
}

// Bypass resolves a request without any user interaction
func (s *service) Bypass(ctx context.Context, req *dialog.Request, opts *AwaitOptions) (result *dialog.Result, err error) {
	if req == nil {
		return nil, dnderr.InvalidArgument("request cannot be nil")
	}

	ctx, span := s.tracer.Start(ctx, "testdialog.Bypass")
	defer func() { endSpan(span, err) }()

	d, err := s.newDialog(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("dialog.id", d.ID()))

	e := &entry{dialog: d}
	closed, err := s.withEntry(e, func(d *dialog.Dialog) error {
		result, err = d.Bypass(ctx)
		return err
	})
	if err != nil {
		s.emitClosed(d, closed)
		return nil, dnderr.Wrapf(err, "failed to bypass dialog %s", d.ID())
	}

	s.complete(ctx, d, result)
	s.emitClosed(d, closed)
	return result, nil
}

// Render re-runs the pass of an open dialog
func (s *service) Render(ctx context.Context, dialogID string) (*dialog.Snapshot, error) {
	return s.update(ctx, "testdialog.Render", dialogID, func(ctx context.Context, d *dialog.Dialog) (*dialog.Snapshot, error) {
		return d.Render(ctx)
	})
}

// Input records a user entry
func (s *service) Input(ctx context.Context, dialogID, name string, value any) (*dialog.Snapshot, error) {
	if name == "" {
		return nil, dnderr.InvalidArgument("field name is required")
	}
	return s.update(ctx, "testdialog.Input", dialogID, func(ctx context.Context, d *dialog.Dialog) (*dialog.Snapshot, error) {
		return d.Input(ctx, name, value)
	})
}

// Adjust adds delta to a numeric user entry
func (s *service) Adjust(ctx context.Context, dialogID, name string, delta int) (*dialog.Snapshot, error) {
	if name == "" {
		return nil, dnderr.InvalidArgument("field name is required")
	}
	return s.update(ctx, "testdialog.Adjust", dialogID, func(ctx context.Context, d *dialog.Dialog) (*dialog.Snapshot, error) {
		return d.AdjustEntry(ctx, name, delta)
	})
}

// ToggleScript applies a user click on a script
func (s *service) ToggleScript(ctx context.Context, dialogID string, index int) (*dialog.Snapshot, error) {
	return s.update(ctx, "testdialog.ToggleScript", dialogID, func(ctx context.Context, d *dialog.Dialog) (*dialog.Snapshot, error) {
		return d.ToggleScript(ctx, index)
	})
}

// Submit finalizes an open dialog and stores its result
func (s *service) Submit(ctx context.Context, dialogID string) (result *dialog.Result, err error) {
	ctx, span := s.tracer.Start(ctx, "testdialog.Submit", trace.WithAttributes(attribute.String("dialog.id", dialogID)))
	defer func() { endSpan(span, err) }()

	e, err := s.lookup(dialogID)
	if err != nil {
		return nil, err
	}

	closed, err := s.withEntry(e, func(d *dialog.Dialog) error {
		result, err = d.Submit(ctx)
		return err
	})
	if err != nil {
		s.emitClosed(e.dialog, closed)
		return nil, dnderr.Wrapf(err, "failed to submit dialog %s", dialogID)
	}

	s.complete(ctx, e.dialog, result)
	s.emitClosed(e.dialog, closed)
	return result, nil
}

// Cancel closes an open dialog without a result
func (s *service) Cancel(ctx context.Context, dialogID string) (err error) {
	_, span := s.tracer.Start(ctx, "testdialog.Cancel", trace.WithAttributes(attribute.String("dialog.id", dialogID)))
	defer func() { endSpan(span, err) }()

	e, err := s.lookup(dialogID)
	if err != nil {
		return err
	}

	closed, err := s.withEntry(e, func(d *dialog.Dialog) error {
		d.Cancel()
		return nil
	})
	s.emitClosed(e.dialog, closed)
	return err
}

// ActiveIDs lists the open dialogs in id order
func (s *service) ActiveIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.dialogs))
	for id := range s.dialogs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetResult retrieves a stored result
func (s *service) GetResult(ctx context.Context, resultID string) (*dialog.Result, error) {
	return s.repository.Get(ctx, resultID)
}

// ListResults lists an actor's stored results, newest first
func (s *service) ListResults(ctx context.Context, actorID string) ([]*dialog.Result, error) {
	return s.repository.ListByActor(ctx, actorID)
}

func (s *service) newDialog(ctx context.Context, req *dialog.Request, opts *AwaitOptions) (*dialog.Dialog, error) {
	if opts == nil {
		opts = &AwaitOptions{}
	}

	actor := opts.Actor
	if actor == nil && req.Data.Speaker != nil && req.Data.Speaker.ActorID != "" && s.actors != nil {
		resolved, err := s.actors.Actor(ctx, *req.Data.Speaker)
		switch {
		case err == nil:
			actor = resolved
		case dnderr.IsNotFound(err):
			log.Printf("TestDialog: speaker %s has no actor, continuing without one", req.Data.Speaker.ActorID)
		default:
			return nil, dnderr.Wrapf(err, "failed to resolve speaker %s", req.Data.Speaker.ActorID)
		}
	}

	rollMode := opts.RollMode
	if rollMode == "" {
		rollMode = s.rollMode
	}

	d := dialog.New(req, dialog.Options{
		ID:             s.uuidGenerator.New(),
		Actor:          actor,
		RollMode:       rollMode,
		InitialTooltip: opts.InitialTooltip,
		Scripts:        opts.Scripts,
		Extension:      opts.Extension,
		Now:            s.now,
	})

	// Created listeners may still adjust the dialog before its first pass
	s.emit(events.NewDialogCreatedEvent(d))

	return d, nil
}

// update runs op on an open dialog under its lock and broadcasts the snapshot
func (s *service) update(ctx context.Context, name, dialogID string, op func(context.Context, *dialog.Dialog) (*dialog.Snapshot, error)) (snap *dialog.Snapshot, err error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("dialog.id", dialogID)))
	defer func() { endSpan(span, err) }()

	e, err := s.lookup(dialogID)
	if err != nil {
		return nil, err
	}

	closed, err := s.withEntry(e, func(d *dialog.Dialog) error {
		snap, err = op(ctx, d)
		return err
	})
	if err != nil {
		s.emitClosed(e.dialog, closed)
		return nil, dnderr.Wrapf(err, "failed to update dialog %s", dialogID)
	}

	span.SetAttributes(
		attribute.String("dialog.state", string(snap.State)),
		attribute.Bool("dialog.closed", snap.Closed),
	)
	s.emit(events.NewDialogRenderedEvent(e.dialog, snap))
	s.emitClosed(e.dialog, closed)
	return snap, nil
}

// withEntry serializes access to a dialog. It reports whether fn closed the
// dialog; callers emit the closed event once the lock is released so
// listeners may call back into the service.
func (s *service) withEntry(e *entry, fn func(*dialog.Dialog) error) (closed bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasClosed := e.dialog.Closed()
	err = fn(e.dialog)
	return !wasClosed && e.dialog.Closed(), err
}

func (s *service) emitClosed(d *dialog.Dialog, closed bool) {
	if closed {
		s.emit(events.NewDialogClosedEvent(d))
	}
}

func (s *service) complete(ctx context.Context, d *dialog.Dialog, result *dialog.Result) {
	// The requester already has the result; storage failures are logged only
	if err := s.repository.Create(ctx, result); err != nil {
		log.Printf("TestDialog: failed to store result %s: %v", result.ID, err)
	}
	s.emit(events.NewDialogSubmittedEvent(d, result))
}

func (s *service) lookup(dialogID string) (*entry, error) {
	if dialogID == "" {
		return nil, dnderr.InvalidArgument("dialog ID is required")
	}

	s.mu.RLock()
	e, ok := s.dialogs[dialogID]
	s.mu.RUnlock()

	if !ok {
		return nil, dnderr.NotFoundf("dialog %s not found", dialogID).
			WithMeta("dialog_id", dialogID)
	}
	return e, nil
}

func (s *service) remove(dialogID string) {
	s.mu.Lock()
	delete(s.dialogs, dialogID)
	s.mu.Unlock()
}

func (s *service) emit(event events.Event) {
	if err := s.bus.Emit(event); err != nil {
		log.Printf("TestDialog: %s listeners failed for dialog %s: %v", event.GetType(), event.GetDialogID(), err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
