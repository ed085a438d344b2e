package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/logging"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PanelSkillButtonID is the ID for the panel's skill evaluation button.
	PanelSkillButtonID = "panel_skill_eval"

	// PanelSupportButtonID is the ID for the panel's support button.
	PanelSupportButtonID = "panel_support"
)

const (
	// SkillEvalEmoji is the emoji for the skill evaluation button. (Star)
	SkillEvalEmoji = "⭐"

	// SupportEmoji is the emoji for the support button. (Question mark)
	SupportEmoji = "❓"
)

// sendPanelMessage sends the persistent tickets panel to the channel.
func sendPanelMessage(a IApp, channelID string) (*discordgo.Message, error) {
	embed := &discordgo.MessageEmbed{
		Title:       "Create a ticket",
		Description: "Select the category you are willing to create a ticket about using the buttons below.",
		Color:       ticketing.EmbedColour,
	}

	msg, err := a.Session().ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Skill Evaluation", SkillEvalEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: PanelSkillButtonID,
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Support", SupportEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: PanelSupportButtonID,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error sending panel message: %w", err)
	}
	return msg, nil
}

// reattachPanels verifies the stored panel message of every joined guild once
// the session is ready. Button handlers are keyed by custom ID, so an intact
// message keeps working across restarts; a deleted one has its stored
// reference cleared so the next setup sends a fresh panel. Guilds without a
// stored reference are left alone.
func reattachPanels(a IApp) {
	ctx := context.Background()

	guilds, err := a.Session().UserGuilds(0, "", "")
	if err != nil {
		a.Log().Error("Error getting guilds for panel re-registration", slog.String(logging.KeyError, err.Error()))
		return
	}

	for _, g := range guilds {
		guild, err := a.GuildDal().GetGuildData(ctx, g.ID)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				a.Log().Error("Error getting guild data for panel re-registration",
					slog.String(logging.KeyGuild, g.ID),
					slog.String(logging.KeyError, err.Error()),
				)
			}
			continue
		}

		if guild.TicketsMessageID == "" {
			continue
		}

		if _, err := a.Session().ChannelMessage(guild.TicketsChannelID, guild.TicketsMessageID); err != nil {
			restErr := new(discordgo.RESTError)
			if errors.As(err, &restErr) && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
				a.Log().Warn("Stored panel message no longer exists, clearing the reference",
					slog.String(logging.KeyGuild, g.ID),
				)
				if err := a.GuildDal().UnsetField(ctx, g.ID, "tickets_message_id"); err != nil {
					a.Log().Error("Error clearing panel message reference",
						slog.String(logging.KeyGuild, g.ID),
						slog.String(logging.KeyError, err.Error()),
					)
				}
				continue
			}

			a.Log().Error("Error checking panel message",
				slog.String(logging.KeyGuild, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			continue
		}

		a.Log().Debug("Panel message active", slog.String(logging.KeyGuild, g.ID))
	}
}
