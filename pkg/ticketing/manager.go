package ticketing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/custom"
	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"github.com/Littie6amer/discord-bot-owners/pkg/logging"
	"github.com/google/uuid"
)

// EmbedColour is the colour used for the bot's embeds.
const EmbedColour = 0x5865F2

// Store is the view of the guild settings store that the lifecycle manager
// needs. The guild DAL satisfies it.
type Store interface {
	// GetGuildData gets the settings document for a guild.
	GetGuildData(ctx context.Context, guildID string) (*entities.GuildData, error)

	// SetField applies an atomic $set at the dotted field path.
	SetField(ctx context.Context, guildID, path string, value any) error

	// SetFieldsIfAbsent applies an atomic $set of every given dotted field
	// path while the guard path does not exist, reporting whether it was
	// applied. The fields land together or not at all.
	SetFieldsIfAbsent(ctx context.Context, guildID, guardPath string, fields map[string]any) (bool, error)

	// UnsetField applies an atomic $unset at the dotted field path.
	UnsetField(ctx context.Context, guildID, path string) error
}

// ChannelParams are the parameters for provisioning a ticket channel. The
// channel is visible to the requester and, when set, the manager role; it is
// hidden from everyone else.
type ChannelParams struct {
	// GuildID is the guild to create the channel in.
	GuildID string

	// Name is the channel name.
	Name string

	// Topic is the channel topic.
	Topic string

	// ParentID is the category channel to create the channel under.
	ParentID string

	// UserID is the requester, who is granted read access.
	UserID string

	// ManagerRoleID, when non-empty, is granted read and message-manage access.
	ManagerRoleID string
}

// Platform is the view of the chat platform that the lifecycle and skill
// managers need. The discord session adapter satisfies it.
type Platform interface {
	// CreateTicketChannel provisions a private ticket channel and returns its ID.
	CreateTicketChannel(p ChannelParams) (string, error)

	// SealChannel revokes default visibility on a channel.
	SealChannel(guildID, channelID string) error

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// SendEmbed sends an embed to a channel and returns the message ID.
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error)

	// SendEmbedWithFile sends an embed with a file attached.
	SendEmbedWithFile(channelID string, embed *discordgo.MessageEmbed, filename string, file io.Reader) (string, error)

	// SendMessage sends a plain message to a channel and returns the message ID.
	SendMessage(channelID, content string) (string, error)

	// DeleteMessage deletes a message from a channel.
	DeleteMessage(channelID, messageID string) error

	// Transcript generates a transcript of the channel's history.
	Transcript(channelID string) (string, error)

	// MemberName returns the username of a guild member.
	MemberName(guildID, userID string) (string, error)

	// AddMemberRoles adds roles to a guild member.
	AddMemberRoles(guildID, userID string, roleIDs ...string) error

	// RemoveMemberRoles removes roles from a guild member.
	RemoveMemberRoles(guildID, userID string, roleIDs ...string) error
}

// Manager orchestrates the ticket lifecycle against the settings store and
// the chat platform. It holds no state of its own; every operation re-reads
// the guild document.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	// store is the guild settings store.
	store Store

	// platform is the chat platform.
	platform Platform
}

// NewManager creates a new ticket lifecycle manager.
func NewManager(l *slog.Logger, store Store, platform Platform) *Manager {
	return &Manager{
		l:        l,
		store:    store,
		platform: platform,
	}
}

// OpenRequest is a request to open a ticket.
type OpenRequest struct {
	// GuildID is the guild the ticket is opened in.
	GuildID string

	// UserID is the requester.
	UserID string

	// Username is the requester's username.
	Username string

	// Discriminator is the requester's discriminator.
	Discriminator string

	// Category is the ticket category, or SupportCategory.
	Category string

	// Stars is the requested star rating, or empty for support tickets.
	Stars string
}

// OpenResult is the outcome of a successful open.
type OpenResult struct {
	// ChannelID is the created ticket channel.
	ChannelID string
}

// Open opens a ticket: it validates the request, provisions the private
// channel, reserves the (category, user) index entry and posts the welcome
// message. A user can hold at most one open ticket per category.
func (m *Manager) Open(ctx context.Context, req *OpenRequest) (*OpenResult, error) {
	if req.Stars != "" && !ValidStars(req.Stars) {
		return nil, ErrInvalidStars
	}

	guild, err := m.store.GetGuildData(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild data: %w", err)
	}

	prefix := "support"
	if req.Category != SupportCategory {
		category, ok := guild.Categories[req.Category]
		if !ok {
			return nil, ErrUnknownCategory
		}
		if category.Prefix != "" {
			prefix = category.Prefix
		} else {
			prefix = strings.ToLower(req.Category)
		}
	}

	if existing := guild.OpenTicket(req.Category, req.UserID); existing != "" {
		return nil, &DuplicateTicketError{ChannelID: existing}
	}

	// Rated tickets are handled by the category's manager role; support
	// tickets stay between the requester and the administrators.
	managerRoleID := ""
	if req.Stars != "" {
		managerRoleID = guild.SkillRoles[req.Category].ManagerID
	}

	channelID, err := m.platform.CreateTicketChannel(ChannelParams{
		GuildID:       req.GuildID,
		Name:          TicketChannelName(prefix, req.Username, req.Discriminator),
		Topic:         fmt.Sprintf("%s ticket opened by %s", req.Category, req.Username),
		ParentID:      guild.TicketsCategoryID,
		UserID:        req.UserID,
		ManagerRoleID: managerRoleID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	// Reserve both index entries with one conditional write, guarded by the
	// primary key. Writing them together means a ticket is never reachable
	// from one index but not the other. Losing the reservation means a
	// concurrent open won; throw our channel away and report the winner's.
	reserved, err := m.store.SetFieldsIfAbsent(ctx, req.GuildID, ticketPath(req.Category, req.UserID), map[string]any{
		ticketPath(req.Category, req.UserID): channelID,
		channelPath(channelID): entities.TicketRef{
			Category: req.Category,
			UserID:   req.UserID,
		},
	})
	if err != nil {
		// The channel exists but was never indexed. Accepted degraded state;
		// it is surfaced in the logs, not repaired.
		return nil, fmt.Errorf("error reserving ticket for user %s in %s: %w", req.UserID, req.Category, err)
	}
	if !reserved {
		if err := m.platform.DeleteChannel(channelID); err != nil {
			m.l.Warn("Error deleting channel after lost ticket reservation",
				slog.String(logging.KeyCategory, req.Category),
				slog.String(logging.KeyUser, req.UserID),
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}

		existing := ""
		if fresh, err := m.store.GetGuildData(ctx, req.GuildID); err == nil {
			existing = fresh.OpenTicket(req.Category, req.UserID)
		}
		return nil, &DuplicateTicketError{ChannelID: existing}
	}

	if _, err := m.platform.SendEmbed(channelID, welcomeEmbed(req)); err != nil {
		return nil, fmt.Errorf("error sending welcome message: %w", err)
	}

	// Ping the requester so the channel shows up for them, then remove the
	// ping to keep the channel clean.
	if msgID, err := m.platform.SendMessage(channelID, fmt.Sprintf("<@%s>", req.UserID)); err == nil {
		if err := m.platform.DeleteMessage(channelID, msgID); err != nil {
			m.l.Warn("Error deleting ping message",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	} else {
		m.l.Warn("Error pinging requester",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	return &OpenResult{ChannelID: channelID}, nil
}

// CloseRequest is a request to close the ticket held in a channel.
type CloseRequest struct {
	// GuildID is the guild the ticket is in.
	GuildID string

	// ChannelID is the channel the close was invoked in.
	ChannelID string

	// ChannelParentID is the parent category of that channel.
	ChannelParentID string

	// CloserID is the actor closing the ticket.
	CloserID string

	// CloserName is the actor's username.
	CloserName string

	// CloserIsStaff reports whether the actor holds the manager role.
	CloserIsStaff bool

	// CloserIsAdmin reports whether the actor has administrator permissions.
	CloserIsAdmin bool
}

// Close closes the ticket held in a channel: it seals the channel, removes
// the index entries, generates a best-effort transcript, deletes the channel
// and emits a closure record to the ticket logs channel. Closing is terminal;
// there is no reopen.
func (m *Manager) Close(ctx context.Context, req *CloseRequest) error {
	guild, err := m.store.GetGuildData(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	if guild.TicketsCategoryID == "" || req.ChannelParentID != guild.TicketsCategoryID {
		return ErrNotTicketChannel
	}

	if !req.CloserIsStaff && !req.CloserIsAdmin {
		return ErrForbidden
	}

	// Soft-close first so the requester stops seeing the channel while the
	// rest of the teardown runs.
	if err := m.platform.SealChannel(req.GuildID, req.ChannelID); err != nil {
		return fmt.Errorf("error sealing channel: %w", err)
	}

	ref, ok := guild.TicketChannels[req.ChannelID]
	if !ok {
		// The channel sits in the tickets area but the index has no record of
		// it. Nothing sane to tear down; leave the sealed channel behind.
		m.l.Warn("Closure could not locate the ticket for the channel",
			slog.String(logging.KeyGuild, req.GuildID),
			slog.String(logging.KeyChannel, req.ChannelID),
		)
		return nil
	}

	// $unset on an already removed field is a no-op, which makes concurrent
	// closers harmless.
	if err := m.store.UnsetField(ctx, req.GuildID, ticketPath(ref.Category, ref.UserID)); err != nil {
		return fmt.Errorf("error removing ticket index entry: %w", err)
	}
	if err := m.store.UnsetField(ctx, req.GuildID, channelPath(req.ChannelID)); err != nil {
		return fmt.Errorf("error removing ticket channel index entry: %w", err)
	}

	transcript, err := m.platform.Transcript(req.ChannelID)
	if err != nil {
		m.l.Warn("Error generating transcript, closing without one",
			slog.String(logging.KeyChannel, req.ChannelID),
			slog.String(logging.KeyError, err.Error()),
		)
		transcript = ""
	}

	if err := m.platform.DeleteChannel(req.ChannelID); err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}

	record := &entities.ClosureRecord{
		ID:         uuid.NewString(),
		GuildID:    req.GuildID,
		UserID:     ref.UserID,
		CloserID:   req.CloserID,
		CloserName: req.CloserName,
		Category:   ref.Category,
		ClosedAt:   custom.Now(),
	}
	if transcript != "" {
		record.TranscriptFile = fmt.Sprintf("transcript-%s.txt", req.ChannelID)
	}
	if name, err := m.platform.MemberName(req.GuildID, ref.UserID); err == nil {
		record.Username = name
	}

	if guild.TicketLogsChannelID == "" {
		m.l.Warn("No ticket logs channel configured, dropping closure record",
			slog.String(logging.KeyGuild, req.GuildID),
		)
		return nil
	}

	embed := closureEmbed(record)
	if transcript != "" {
		_, err = m.platform.SendEmbedWithFile(guild.TicketLogsChannelID, embed, record.TranscriptFile, strings.NewReader(transcript))
	} else {
		_, err = m.platform.SendEmbed(guild.TicketLogsChannelID, embed)
	}
	if err != nil {
		return fmt.Errorf("error sending closure record: %w", err)
	}
	return nil
}

func ticketPath(category, userID string) string {
	return fmt.Sprintf("tickets.%s.%s", category, userID)
}

func channelPath(channelID string) string {
	return fmt.Sprintf("ticket_channels.%s", channelID)
}

func welcomeEmbed(req *OpenRequest) *discordgo.MessageEmbed {
	handler := "an administrator"
	if req.Stars != "" {
		handler = "a manager"
	}

	embed := &discordgo.MessageEmbed{
		Title: "Ticket",
		Description: fmt.Sprintf("Welcome <@%s> to Discord Bot Owner's ticket system.\n\n"+
			"Please wait for %s to handle your ticket.", req.UserID, handler),
		Color:     EmbedColour,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Discord Bot Owners",
		},
	}

	if req.Stars != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:  "Category",
				Value: req.Category,
			},
			{
				Name:  "Stars",
				Value: req.Stars,
			},
		}
	}
	return embed
}

func closureEmbed(record *entities.ClosureRecord) *discordgo.MessageEmbed {
	userLine := fmt.Sprintf("**User**: <@%s>\n", record.UserID)
	if record.Username != "" {
		userLine = fmt.Sprintf("**User**: <@%s> / %s\n", record.UserID, record.Username)
	}

	transcriptLine := "**Transcript**: *unavailable*\n"
	if record.TranscriptFile != "" {
		transcriptLine = "**Transcript**: *see attachments*\n"
	}

	return &discordgo.MessageEmbed{
		Title: "Ticket",
		Description: userLine +
			fmt.Sprintf("**Closed by**: <@%s> / %s\n", record.CloserID, record.CloserName) +
			fmt.Sprintf("**Category**: %s\n", record.Category) +
			transcriptLine,
		Color:     EmbedColour,
		Timestamp: record.ClosedAt.String(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Closure %s", record.ID),
		},
	}
}
