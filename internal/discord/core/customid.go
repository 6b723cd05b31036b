package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CustomIDSeparator is the character used to separate parts
	CustomIDSeparator = ":"

	// MaxCustomIDLength is Discord's limit for custom IDs
	MaxCustomIDLength = 100
)

// CustomID is a parsed component custom ID of the form
// domain:action[:target[:args...]]
type CustomID struct {
	// Domain routes the interaction to a router (e.g. "test")
	Domain string

	// Action is the specific action (e.g. "adjust", "roll")
	Action string

	// Target is the primary target of the action, usually a dialog ID
	Target string

	// Args are additional arguments
	Args []string
}

// NewCustomID creates a new CustomID
func NewCustomID(domain, action string) *CustomID {
	return &CustomID{
		Domain: domain,
		Action: action,
	}
}

// WithTarget sets the target
func (c *CustomID) WithTarget(target string) *CustomID {
	c.Target = target
	return c
}

// WithArgs adds arguments
func (c *CustomID) WithArgs(args ...string) *CustomID {
	c.Args = append(c.Args, args...)
	return c
}

// Encode converts the CustomID to a string
func (c *CustomID) Encode() (string, error) {
	parts := []string{c.Domain, c.Action}
	if c.Target != "" || len(c.Args) > 0 {
		parts = append(parts, c.Target)
	}
	parts = append(parts, c.Args...)

	for _, p := range parts {
		if strings.Contains(p, CustomIDSeparator) {
			return "", fmt.Errorf("custom ID part %q contains %q", p, CustomIDSeparator)
		}
	}

	result := strings.Join(parts, CustomIDSeparator)
	if len(result) > MaxCustomIDLength {
		return "", fmt.Errorf("custom ID exceeds maximum length of %d characters", MaxCustomIDLength)
	}

	return result, nil
}

// MustEncode is like Encode but panics on error
func (c *CustomID) MustEncode() string {
	result, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return result
}

// Arg returns the argument at index or an empty string
func (c *CustomID) Arg(index int) string {
	if index < 0 || index >= len(c.Args) {
		return ""
	}
	return c.Args[index]
}

// IntArg parses the argument at index as an int
func (c *CustomID) IntArg(index int) (int, error) {
	arg := c.Arg(index)
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("argument %d of %s:%s is not a number: %q", index, c.Domain, c.Action, arg)
	}
	return n, nil
}

// ParseCustomID parses a custom ID string
func ParseCustomID(customID string) (*CustomID, error) {
	if customID == "" {
		return nil, fmt.Errorf("empty custom ID")
	}

	parts := strings.Split(customID, CustomIDSeparator)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid custom ID format: expected at least domain:action")
	}

	result := &CustomID{
		Domain: parts[0],
		Action: parts[1],
	}
	if len(parts) > 2 {
		result.Target = parts[2]
	}
	if len(parts) > 3 {
		result.Args = parts[3:]
	}

	return result, nil
}

// CustomIDBuilder builds custom IDs for one domain
type CustomIDBuilder struct {
	domain string
}

// NewCustomIDBuilder creates a new builder for a domain
func NewCustomIDBuilder(domain string) *CustomIDBuilder {
	return &CustomIDBuilder{domain: domain}
}

// Build creates a CustomID for an action
func (b *CustomIDBuilder) Build(action string) *CustomID {
	return NewCustomID(b.domain, action)
}

// Encode creates an encoded custom ID for an action on target
func (b *CustomIDBuilder) Encode(action, target string, args ...string) string {
	return NewCustomID(b.domain, action).
		WithTarget(target).
		WithArgs(args...).
		MustEncode()
}
