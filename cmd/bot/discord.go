package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/ticketing"
)

// discordPlatform implements ticketing.Platform over the discord session.
type discordPlatform struct {
	// l is the logger.
	l *slog.Logger

	// s is the discord session.
	s *discordgo.Session
}

func newDiscordPlatform(l *slog.Logger, s *discordgo.Session) *discordPlatform {
	return &discordPlatform{
		l: l,
		s: s,
	}
}

func (p *discordPlatform) CreateTicketChannel(params ticketing.ChannelParams) (string, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   params.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionAll,
		},
		// The requester can see the ticket.
		{
			ID:    params.UserID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		},
	}

	// Rated tickets are also visible to the category's manager role.
	if params.ManagerRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    params.ManagerRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionAllText | discordgo.PermissionManageMessages,
			Deny:  discordgo.PermissionMentionEveryone,
		})
	}

	channel, err := p.s.GuildChannelCreateComplex(params.GuildID, discordgo.GuildChannelCreateData{
		Name:                 params.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                params.Topic,
		PermissionOverwrites: overwrites,
		ParentID:             params.ParentID,
	})
	if err != nil {
		return "", fmt.Errorf("error creating channel: %w", err)
	}
	return channel.ID, nil
}

func (p *discordPlatform) SealChannel(guildID, channelID string) error {
	// Replace every overwrite with a single deny for @everyone.
	if _, err := p.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionAll,
			},
		},
	}); err != nil {
		return fmt.Errorf("error editing channel: %w", err)
	}
	return nil
}

func (p *discordPlatform) DeleteChannel(channelID string) error {
	if _, err := p.s.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}
	return nil
}

func (p *discordPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := p.s.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return "", fmt.Errorf("error sending embed: %w", err)
	}
	return msg.ID, nil
}

func (p *discordPlatform) SendEmbedWithFile(channelID string, embed *discordgo.MessageEmbed, filename string, file io.Reader) (string, error) {
	msg, err := p.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed: embed,
		Files: []*discordgo.File{
			{
				Name:        filename,
				ContentType: "text/plain",
				Reader:      file,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("error sending embed with file: %w", err)
	}
	return msg.ID, nil
}

func (p *discordPlatform) SendMessage(channelID, content string) (string, error) {
	msg, err := p.s.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	return msg.ID, nil
}

func (p *discordPlatform) DeleteMessage(channelID, messageID string) error {
	if err := p.s.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	return nil
}

// Transcript pages through the channel's history and renders it as plain
// text. The page size is the API maximum.
func (p *discordPlatform) Transcript(channelID string) (string, error) {
	channel, err := p.s.Channel(channelID)
	if err != nil {
		return "", fmt.Errorf("error getting channel: %w", err)
	}

	var history []*discordgo.Message
	before := ""
	for {
		batch, err := p.s.ChannelMessages(channelID, 100, before, "", "")
		if err != nil {
			return "", fmt.Errorf("error getting channel messages: %w", err)
		}
		history = append(history, batch...)
		if len(batch) < 100 {
			break
		}
		before = batch[len(batch)-1].ID
	}

	return ticketing.RenderTranscript(channel.Name, history), nil
}

func (p *discordPlatform) MemberName(guildID, userID string) (string, error) {
	member, err := p.s.GuildMember(guildID, userID)
	if err != nil {
		return "", fmt.Errorf("error getting member: %w", err)
	}
	return member.User.Username, nil
}

func (p *discordPlatform) AddMemberRoles(guildID, userID string, roleIDs ...string) error {
	for _, roleID := range roleIDs {
		if err := p.s.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
			return fmt.Errorf("error adding role %s: %w", roleID, err)
		}
	}
	return nil
}

func (p *discordPlatform) RemoveMemberRoles(guildID, userID string, roleIDs ...string) error {
	for _, roleID := range roleIDs {
		if err := p.s.GuildMemberRoleRemove(guildID, userID, roleID); err != nil {
			return fmt.Errorf("error removing role %s: %w", roleID, err)
		}
	}
	return nil
}
