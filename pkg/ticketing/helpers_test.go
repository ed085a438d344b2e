package ticketing

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fieldCall struct {
	path  string
	value any
}

type reserveCall struct {
	guard  string
	fields map[string]any
}

// fakeStore serves a guild document and records every mutation. Reservations
// succeed unless reserveDenied or reserveErr is set.
type fakeStore struct {
	guild         *entities.GuildData
	getErr        error
	reserveDenied bool
	reserveErr    error

	sets     []fieldCall
	reserves []reserveCall
	unsets   []string
}

func (s *fakeStore) GetGuildData(_ context.Context, _ string) (*entities.GuildData, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.guild, nil
}

func (s *fakeStore) SetField(_ context.Context, _ string, path string, value any) error {
	s.sets = append(s.sets, fieldCall{path: path, value: value})
	return nil
}

func (s *fakeStore) SetFieldsIfAbsent(_ context.Context, _ string, guard string, fields map[string]any) (bool, error) {
	if s.reserveErr != nil {
		return false, s.reserveErr
	}
	if s.reserveDenied {
		return false, nil
	}
	s.reserves = append(s.reserves, reserveCall{guard: guard, fields: fields})
	return true, nil
}

func (s *fakeStore) UnsetField(_ context.Context, _ string, path string) error {
	s.unsets = append(s.unsets, path)
	return nil
}

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
	filename  string
	file      string
}

// fakePlatform records every platform call and hands out channel IDs.
type fakePlatform struct {
	nextChannelID string
	transcript    string
	transcriptErr error
	memberName    string

	created      []ChannelParams
	sealed       []string
	deleted      []string
	embeds       []sentEmbed
	messages     []string
	deletedMsgs  []string
	rolesAdded   [][]string
	rolesRemoved [][]string
}

func (p *fakePlatform) CreateTicketChannel(params ChannelParams) (string, error) {
	p.created = append(p.created, params)
	return p.nextChannelID, nil
}

func (p *fakePlatform) SealChannel(_, channelID string) error {
	p.sealed = append(p.sealed, channelID)
	return nil
}

func (p *fakePlatform) DeleteChannel(channelID string) error {
	p.deleted = append(p.deleted, channelID)
	return nil
}

func (p *fakePlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	p.embeds = append(p.embeds, sentEmbed{channelID: channelID, embed: embed})
	return "msg-1", nil
}

func (p *fakePlatform) SendEmbedWithFile(channelID string, embed *discordgo.MessageEmbed, filename string, file io.Reader) (string, error) {
	contents, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	p.embeds = append(p.embeds, sentEmbed{channelID: channelID, embed: embed, filename: filename, file: string(contents)})
	return "msg-1", nil
}

func (p *fakePlatform) SendMessage(channelID, content string) (string, error) {
	p.messages = append(p.messages, content)
	return "msg-2", nil
}

func (p *fakePlatform) DeleteMessage(_, messageID string) error {
	p.deletedMsgs = append(p.deletedMsgs, messageID)
	return nil
}

func (p *fakePlatform) Transcript(_ string) (string, error) {
	if p.transcriptErr != nil {
		return "", p.transcriptErr
	}
	return p.transcript, nil
}

func (p *fakePlatform) MemberName(_, _ string) (string, error) {
	if p.memberName == "" {
		return "", errors.New("member not found")
	}
	return p.memberName, nil
}

func (p *fakePlatform) AddMemberRoles(_, _ string, roleIDs ...string) error {
	p.rolesAdded = append(p.rolesAdded, roleIDs)
	return nil
}

func (p *fakePlatform) RemoveMemberRoles(_, _ string, roleIDs ...string) error {
	p.rolesRemoved = append(p.rolesRemoved, roleIDs)
	return nil
}

// designGuild is a guild document with a configured "Design" category, a
// staffed tickets area and a logs channel.
func designGuild() *entities.GuildData {
	return &entities.GuildData{
		ID:                  "guild-1",
		TicketsCategoryID:   "cat-tickets",
		TicketLogsChannelID: "chan-logs",
		ManagerRoleID:       "role-staff",
		Categories: map[string]entities.TicketCategory{
			"Design": {
				Description: "Design skill evaluation",
				Emoji:       "\U0001F3A8",
				Prefix:      "design",
			},
		},
		SkillRoles: map[string]entities.SkillRoles{
			"Design": {
				ManagerID: "role-design-manager",
				MemberID:  "role-design",
				Stars: map[string]string{
					"1": "role-design-1",
					"2": "role-design-2",
					"3": "role-design-3",
				},
			},
		},
	}
}
