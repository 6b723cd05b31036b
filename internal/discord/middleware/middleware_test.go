package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
)

type onlyCommands struct {
	handle core.HandlerFunc
}

func (h onlyCommands) CanHandle(ctx *core.InteractionContext) bool { return ctx.IsCommand() }

func (h onlyCommands) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return h.handle(ctx)
}

func TestMiddleware_KeepsCanHandle(t *testing.T) {
	handler := onlyCommands{handle: func(*core.InteractionContext) (*core.HandlerResult, error) {
		return &core.HandlerResult{}, nil
	}}
	wrapped := LoggingMiddleware()(RecoveryMiddleware()(handler))

	session := core.NewMockSession()
	component := core.NewTestInteraction("user-1", "chan-1").AsComponent("test:roll:dialog-1").Context(session)
	command := core.NewTestInteraction("user-1", "chan-1").AsCommand("test", "roll", nil).Context(session)

	assert.False(t, wrapped.CanHandle(component))
	assert.True(t, wrapped.CanHandle(command))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := core.HandlerFunc(func(*core.InteractionContext) (*core.HandlerResult, error) {
		panic("lua state corrupted")
	})

	ctx := core.NewTestInteraction("user-1", "chan-1").AsCommand("test", "roll", nil).Context(core.NewMockSession())
	result, err := RecoveryMiddleware()(handler).Handle(ctx)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "lua state corrupted")
}

func TestTracingMiddleware(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")

	var sawSpan bool
	handler := core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		sawSpan = ctx.Context != context.Background()
		return nil, errors.New("boom")
	})

	ctx := core.NewTestInteraction("user-1", "chan-1").AsCommand("test", "roll", nil).Context(core.NewMockSession())
	_, err := TracingMiddleware(tracer)(handler).Handle(ctx)
	require.Error(t, err)

	assert.True(t, sawSpan)
	assert.Equal(t, context.Background(), ctx.Context)
	require.Len(t, spans.Ended(), 1)
	assert.Equal(t, "discord.interaction", spans.Ended()[0].Name())
	assert.Len(t, spans.Ended()[0].Events(), 1)
}
