package core

import (
	"github.com/bwmarrin/discordgo"
)

// Handler processes one routed interaction
type Handler interface {
	CanHandle(ctx *InteractionContext) bool
	Handle(ctx *InteractionContext) (*HandlerResult, error)
}

// HandlerFunc adapts a function to Handler. Routing is done by key in the
// Router, so a HandlerFunc accepts whatever reaches it.
type HandlerFunc func(ctx *InteractionContext) (*HandlerResult, error)

func (f HandlerFunc) CanHandle(*InteractionContext) bool {
	return true
}

func (f HandlerFunc) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return f(ctx)
}

// HandlerResult carries what the pipeline sends back for an interaction
type HandlerResult struct {
	Response *Response
}

// Reply wraps a response in a HandlerResult
func Reply(response *Response) *HandlerResult {
	return &HandlerResult{Response: response}
}

// Response is a message sent for an interaction. With Update set it replaces
// the message holding the clicked component instead of posting a new one;
// nil Embeds then keep the old embeds while an empty slice removes them.
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
	Update     bool
}

func NewResponse(content string) *Response {
	return &Response{Content: content}
}

// NewEphemeralResponse is a text reply only the caller sees
func NewEphemeralResponse(content string) *Response {
	return &Response{Content: content, Ephemeral: true}
}

func NewEmbedResponse(embed *discordgo.MessageEmbed) *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{embed}}
}

// NewPanel is a private message with an embed and its controls, such as an
// open dialog
func NewPanel(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) *Response {
	return &Response{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
		Ephemeral:  true,
	}
}

// NewPanelUpdate redraws the embed and controls of the clicked message
func NewPanelUpdate(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) *Response {
	return &Response{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
		Update:     true,
	}
}

// NewClosedUpdate turns the clicked message into a line of text, dropping
// its embeds and controls
func NewClosedUpdate(content string) *Response {
	return &Response{
		Content:    content,
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
		Update:     true,
	}
}

// AsEphemeral hides the response from everyone but the caller
func (r *Response) AsEphemeral() *Response {
	r.Ephemeral = true
	return r
}

// AsUpdate makes the response replace the clicked message
func (r *Response) AsUpdate() *Response {
	r.Update = true
	return r
}

// Edit converts r into an edit of an earlier interaction reply, for changes
// that arrive outside that interaction. Nil embeds are left untouched.
func (r *Response) Edit() *discordgo.WebhookEdit {
	content := r.Content
	components := r.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	edit := &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}
	if r.Embeds != nil {
		embeds := r.Embeds
		edit.Embeds = &embeds
	}
	return edit
}
