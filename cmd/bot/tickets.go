package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/cmd/bot/monitoring"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
)

const (
	// CategorySelectID is the ID for the ticket category select menu.
	CategorySelectID = "ticket_category_select"

	// StarsModalID is the ID prefix for the stars modal. The selected
	// category rides along after the colon.
	StarsModalID = "ticket_stars_modal"

	// StarsInputID is the ID for the stars text input inside the modal.
	StarsInputID = "ticket_stars_input"
)

const (
	// CloseCmdName is the command for closing the ticket in the current channel.
	CloseCmdName = "close"
)

var (
	// closeCmd is the command for closing tickets.
	closeCmd = &discordgo.ApplicationCommand{
		Name:        CloseCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This closes the ticket for the channel that the command was executed in.",
	}
)

func closeCmdController(_ IApp, _ *discordgo.InteractionCreate) (commandProcessor, error) {
	return closeTicketHandler, nil
}

// skillEvalButtonHandler answers the panel's Skill Evaluation button with an
// ephemeral category picker.
func skillEvalButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	guild, err := a.GuildDal().GetGuildData(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	names := ticketing.MatchCategories(guild.Categories, "")
	if len(names) == 0 {
		return respondEphemeral(a, i, "No ticket categories have been set up yet.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(names))
	for _, name := range names {
		category := guild.Categories[name]
		options = append(options, discordgo.SelectMenuOption{
			Label:       name,
			Value:       name,
			Description: category.Description,
			Emoji:       discordgo.ComponentEmoji{Name: category.Emoji},
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    CategorySelectID,
							Placeholder: "Select a category...",
							Options:     options,
						},
					},
				},
			},
		},
	})
}

// categorySelectHandler answers the category pick with the stars modal.
func categorySelectHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return errors.New("no category selected")
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: fmt.Sprintf("%s:%s", StarsModalID, values[0]),
			Title:    "Create a Ticket",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    StarsInputID,
							Label:       "Stars requested",
							Style:       discordgo.TextInputShort,
							Placeholder: "Type either 1, 2 or 3",
							Required:    true,
							MaxLength:   1,
						},
					},
				},
			},
		},
	})
}

// starsModalHandler opens a rated ticket from the submitted modal.
func starsModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	_, category, ok := strings.Cut(data.CustomID, ":")
	if !ok || category == "" {
		return fmt.Errorf("modal custom ID %q carries no category", data.CustomID)
	}

	stars := ""
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == StarsInputID {
				stars = input.Value
			}
		}
	}

	return openTicket(a, i, category, stars)
}

// supportButtonHandler opens an unrated support ticket.
func supportButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	return openTicket(a, i, ticketing.SupportCategory, "")
}

func openTicket(a IApp, i *discordgo.InteractionCreate, category, stars string) error {
	user := i.Member.User

	if !a.OpenLimiter(user.ID).Allow() {
		return respondEphemeral(a, i, "You are opening tickets too quickly. Please wait a moment and try again.")
	}

	// Acknowledge straight away; channel provisioning can take a while.
	if err := respondEphemeral(a, i, "Your ticket is being created..."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	res, err := a.Tickets().Open(context.Background(), &ticketing.OpenRequest{
		GuildID:       i.GuildID,
		UserID:        user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Category:      category,
		Stars:         stars,
	})
	if err != nil {
		dup := new(ticketing.DuplicateTicketError)
		switch {
		case errors.As(err, &dup):
			return editResponse(a, i, fmt.Sprintf("You already have a ticket opened in this category, <#%s>.", dup.ChannelID))
		case errors.Is(err, ticketing.ErrInvalidStars):
			return editResponse(a, i, "The number of requested stars must be either 1, 2 or 3.")
		case errors.Is(err, ticketing.ErrUnknownCategory):
			return editResponse(a, i, "This category does not exist.")
		default:
			return fmt.Errorf("error opening ticket: %w", err)
		}
	}

	monitoring.TotalTicketsOpened.WithLabelValues(category).Inc()

	return editResponse(a, i, fmt.Sprintf("Your ticket has been created, <#%s>.", res.ChannelID))
}

func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}

	guild, err := a.GuildDal().GetGuildData(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	// Mirror the lifecycle preconditions here so the actor gets an answer
	// before the interaction is acknowledged.
	if guild.TicketsCategoryID == "" || channel.ParentID != guild.TicketsCategoryID {
		return respondEphemeral(a, i, "This channel is not a ticket.")
	}

	staff := hasRole(i.Member, guild.ManagerRoleID)
	admin := isAdmin(i.Member)
	if !staff && !admin {
		return respondEphemeral(a, i, "You can't do that.")
	}

	// Acknowledge before the teardown; the channel is gone afterwards.
	if err := respondMessage(a, i, "This ticket will soon be closed."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	if err := a.Tickets().Close(ctx, &ticketing.CloseRequest{
		GuildID:         i.GuildID,
		ChannelID:       i.ChannelID,
		ChannelParentID: channel.ParentID,
		CloserID:        i.Member.User.ID,
		CloserName:      i.Member.User.Username,
		CloserIsStaff:   staff,
		CloserIsAdmin:   admin,
	}); err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	}

	monitoring.TotalTicketsClosed.Inc()
	return nil
}
