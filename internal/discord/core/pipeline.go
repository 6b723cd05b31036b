package core

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Pipeline manages handler registration and execution
type Pipeline struct {
	// Handlers registered in the pipeline
	handlers []Handler

	// Middleware to apply to all handlers
	middleware []Middleware

	// Error handler for uncaught errors
	errorHandler ErrorHandler

	// Mutex for thread-safe handler registration
	mu sync.RWMutex
}

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ErrorHandler handles errors that occur during pipeline execution
type ErrorHandler func(ctx *InteractionContext, err error) *HandlerResult

// NewPipeline creates a new handler pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{
		errorHandler: defaultErrorHandler,
	}
}

// Register adds handlers to the pipeline. Middleware added with Use
// before Register wraps them.
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, wrapped)
	}
}

// Use adds middleware to the pipeline
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware...)
}

// SetErrorHandler sets a custom error handler
func (p *Pipeline) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errorHandler = handler
}

// Execute runs the first handler that can handle the interaction
func (p *Pipeline) Execute(ctx context.Context, s Session, i *discordgo.InteractionCreate) error {
	interactionCtx := NewInteractionContext(ctx, s, i)
	responder := NewResponder(s, i)

	p.mu.RLock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	errorHandler := p.errorHandler
	p.mu.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(interactionCtx) {
			continue
		}

		result, err := handler.Handle(interactionCtx)
		if err != nil {
			result = errorHandler(interactionCtx, err)
		}

		if result != nil && result.Response != nil {
			if err := responder.Respond(result.Response); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}

		return nil
	}

	log.Printf("[Pipeline] No handler for %s", interactionCtx)
	return responder.Respond(NewEphemeralResponse("I don't know how to handle that command."))
}

// HandlerCount returns the number of registered handlers
func (p *Pipeline) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.handlers)
}

// defaultErrorHandler is the default error handler
func defaultErrorHandler(ctx *InteractionContext, err error) *HandlerResult {
	handlerErr := FromError(err)
	log.Printf("[Pipeline] Error in %s: %v", ctx, err)

	return &HandlerResult{
		Response: NewEphemeralResponse(handlerErr.UserMessage),
	}
}
