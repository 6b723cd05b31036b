package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Responder sends the responses of one interaction
type Responder struct {
	session     Session
	interaction *discordgo.InteractionCreate
	responded   bool
}

// NewResponder creates a new responder
func NewResponder(s Session, i *discordgo.InteractionCreate) *Responder {
	return &Responder{
		session:     s,
		interaction: i,
	}
}

// Respond sends the initial response. Later calls send follow-ups.
func (r *Responder) Respond(response *Response) error {
	if r.responded {
		_, err := r.FollowUp(response)
		return err
	}

	responseType := discordgo.InteractionResponseChannelMessageWithSource
	if response.Update {
		responseType = discordgo.InteractionResponseUpdateMessage
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: buildResponseData(response),
	})
	if err == nil {
		r.responded = true
	}

	return err
}

// FollowUp sends an additional message after the initial response
func (r *Responder) FollowUp(response *Response) (*discordgo.Message, error) {
	if !r.responded {
		return nil, fmt.Errorf("cannot follow up before responding")
	}

	params := &discordgo.WebhookParams{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: response.Components,
	}
	if response.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}

	return r.session.FollowupMessageCreate(r.interaction.Interaction, true, params)
}

// HasResponded returns whether this responder has already sent a response
func (r *Responder) HasResponded() bool {
	return r.responded
}

// buildResponseData converts our Response to Discord's InteractionResponseData
func buildResponseData(response *Response) *discordgo.InteractionResponseData {
	components := response.Components
	if components == nil {
		// An update without components removes the old ones
		components = []discordgo.MessageComponent{}
	}

	data := &discordgo.InteractionResponseData{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: components,
	}

	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return data
}
