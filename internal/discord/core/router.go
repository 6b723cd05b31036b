package core

import (
	"fmt"
	"strings"
)

// Router manages handlers for a specific domain
type Router struct {
	// Domain name; also the slash command name (e.g. "test")
	domain string

	// Handlers organized by pattern
	handlers map[string]Handler

	// Middleware specific to this router
	middleware []Middleware

	// CustomID builder for this domain
	customIDBuilder *CustomIDBuilder

	// Parent pipeline to register with
	pipeline *Pipeline
}

// NewRouter creates a new domain router
func NewRouter(domain string, pipeline *Pipeline) *Router {
	return &Router{
		domain:          domain,
		handlers:        make(map[string]Handler),
		customIDBuilder: NewCustomIDBuilder(domain),
		pipeline:        pipeline,
	}
}

// Use adds middleware to this router
func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Handle registers a handler for a specific pattern
func (r *Router) Handle(pattern string, handler Handler) *Router {
	wrapped := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}

	r.handlers[pattern] = wrapped
	return r
}

// SubcommandFunc registers a subcommand handler function
func (r *Router) SubcommandFunc(sub string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle(fmt.Sprintf("cmd:%s:%s", r.domain, sub), HandlerFunc(fn))
}

// ComponentFunc registers a component interaction handler function
func (r *Router) ComponentFunc(action string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle(fmt.Sprintf("component:%s", action), HandlerFunc(fn))
}

// Build creates a single handler from all registered routes
func (r *Router) Build() Handler {
	return &routerHandler{
		domain:   r.domain,
		handlers: r.handlers,
	}
}

// Register registers this router with the pipeline
func (r *Router) Register() {
	if r.pipeline != nil {
		r.pipeline.Register(r.Build())
	}
}

// CustomIDs returns the CustomID builder for this router
func (r *Router) CustomIDs() *CustomIDBuilder {
	return r.customIDBuilder
}

// routerHandler implements Handler for a router
type routerHandler struct {
	domain   string
	handlers map[string]Handler
}

// CanHandle checks if this router can handle the interaction
func (h *routerHandler) CanHandle(ctx *InteractionContext) bool {
	_, ok := h.match(ctx)
	return ok
}

// Handle processes the interaction
func (h *routerHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	handler, ok := h.match(ctx)
	if !ok {
		return nil, NewNotFoundError("handler")
	}
	return handler.Handle(ctx)
}

func (h *routerHandler) match(ctx *InteractionContext) (Handler, bool) {
	pattern := h.extractPattern(ctx)
	if pattern == "" {
		return nil, false
	}

	if handler, ok := h.handlers[pattern]; ok {
		return handler, true
	}

	// Wildcard patterns, most specific first
	parts := strings.Split(pattern, ":")
	for i := len(parts); i > 0; i-- {
		if handler, ok := h.handlers[strings.Join(parts[:i], ":")+":*"]; ok {
			return handler, true
		}
	}

	return nil, false
}

// extractPattern extracts the routing pattern from the interaction
func (h *routerHandler) extractPattern(ctx *InteractionContext) string {
	if ctx.IsCommand() {
		if ctx.GetCommandName() != h.domain {
			return ""
		}

		sub := ctx.GetSubcommand()
		if sub != "" {
			return fmt.Sprintf("cmd:%s:%s", h.domain, sub)
		}
		return fmt.Sprintf("cmd:%s", h.domain)
	}

	if ctx.IsComponent() {
		customID, err := ParseCustomID(ctx.GetCustomID())
		if err != nil || customID.Domain != h.domain {
			return ""
		}
		return fmt.Sprintf("component:%s", customID.Action)
	}

	return ""
}
