package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"go.mongodb.org/mongo-driver/mongo"
)

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondMessage(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// editResponse replaces the content of the original interaction response.
func editResponse(a IApp, i *discordgo.InteractionCreate, content string) error {
	if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		return fmt.Errorf("error editing interaction response: %w", err)
	}
	return nil
}

// hasRole reports whether the member holds the given role.
func hasRole(member *discordgo.Member, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// isAdmin reports whether the member has administrator permissions.
func isAdmin(member *discordgo.Member) bool {
	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// ensureGuildData gets the guild settings document, creating an empty one if
// the guild has none yet.
func ensureGuildData(a IApp, ctx context.Context, guildID string) (*entities.GuildData, error) {
	guild, err := a.GuildDal().GetGuildData(ctx, guildID)
	if err == nil {
		return guild, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	guild = &entities.GuildData{ID: guildID}
	if err := a.GuildDal().SaveGuildData(ctx, guild); err != nil {
		return nil, fmt.Errorf("error creating guild data: %w", err)
	}
	return guild, nil
}
