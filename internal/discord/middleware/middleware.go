// Package middleware holds interaction middleware shared by the Discord routers
package middleware

import (
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
)

// LoggingMiddleware logs every interaction and how long its handler took
func LoggingMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return handlerWith(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			log.Printf("[Discord] %s, User: %s, Guild: %s", ctx, ctx.UserID, ctx.GuildID)

			start := time.Now()
			result, err := next.Handle(ctx)
			if err != nil {
				log.Printf("[Discord] Error in %s: %v", ctx, err)
			}
			log.Printf("[Discord] %s completed in %v", ctx, time.Since(start))

			return result, err
		})
	}
}

// RecoveryMiddleware turns a panicking handler into an error
func RecoveryMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return handlerWith(next, func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Panic recovered in handler: %v", r)
					result = nil
					err = fmt.Errorf("panic: %v", r)
				}
			}()

			return next.Handle(ctx)
		})
	}
}

// TracingMiddleware starts a span per interaction; handlers see it through ctx.Context
func TracingMiddleware(tracer trace.Tracer) core.Middleware {
	return func(next core.Handler) core.Handler {
		return handlerWith(next, func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			spanCtx, span := tracer.Start(ctx.Context, "discord.interaction", trace.WithAttributes(
				attribute.String("discord.interaction", ctx.String()),
				attribute.String("discord.user_id", ctx.UserID),
			))
			defer span.End()

			parent := ctx.Context
			ctx.Context = spanCtx
			defer func() { ctx.Context = parent }()

			result, err := next.Handle(ctx)
			if err != nil {
				span.RecordError(err)
			}
			return result, err
		})
	}
}

// wrapped keeps the wrapped handler's CanHandle so routers stay selectable
// after middleware is applied
type wrapped struct {
	next   core.Handler
	handle core.HandlerFunc
}

func handlerWith(next core.Handler, fn core.HandlerFunc) core.Handler {
	return &wrapped{next: next, handle: fn}
}

func (w *wrapped) CanHandle(ctx *core.InteractionContext) bool {
	return w.next.CanHandle(ctx)
}

func (w *wrapped) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	return w.handle(ctx)
}
