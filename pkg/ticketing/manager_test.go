package ticketing

import (
	"context"
	"errors"
	"testing"

	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestManager_Open(t *testing.T) {
	openReq := func() *OpenRequest {
		return &OpenRequest{
			GuildID:       "guild-1",
			UserID:        "user-alice",
			Username:      "alice",
			Discriminator: "0420",
			Category:      "Design",
			Stars:         "2",
		}
	}

	t.Run("creates the channel and index entries", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		res, err := m.Open(context.Background(), openReq())
		require.NoError(t, err)
		require.Equal(t, "chan-new", res.ChannelID)

		require.Len(t, platform.created, 1)
		require.Equal(t, "design-alice-0420", platform.created[0].Name)
		require.Equal(t, "cat-tickets", platform.created[0].ParentID)
		require.Equal(t, "user-alice", platform.created[0].UserID)
		require.Equal(t, "role-design-manager", platform.created[0].ManagerRoleID)

		// Both index entries land in the one guarded reservation; nothing is
		// written outside it.
		require.Len(t, store.reserves, 1)
		require.Equal(t, "tickets.Design.user-alice", store.reserves[0].guard)
		require.Equal(t, map[string]any{
			"tickets.Design.user-alice": "chan-new",
			"ticket_channels.chan-new":  entities.TicketRef{Category: "Design", UserID: "user-alice"},
		}, store.reserves[0].fields)
		require.Empty(t, store.sets)

		// Welcome embed carries the category and stars for rated tickets.
		require.Len(t, platform.embeds, 1)
		require.Equal(t, "chan-new", platform.embeds[0].channelID)
		require.Len(t, platform.embeds[0].embed.Fields, 2)
		require.Contains(t, platform.embeds[0].embed.Description, "a manager")
	})

	t.Run("support ticket has no manager role and no fields", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		req := openReq()
		req.Category = SupportCategory
		req.Stars = ""

		_, err := m.Open(context.Background(), req)
		require.NoError(t, err)

		require.Equal(t, "support-alice-0420", platform.created[0].Name)
		require.Empty(t, platform.created[0].ManagerRoleID)
		require.Empty(t, platform.embeds[0].embed.Fields)
		require.Contains(t, platform.embeds[0].embed.Description, "an administrator")
	})

	t.Run("invalid stars has no side effects", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		for _, stars := range []string{"0", "4", "one", "22"} {
			req := openReq()
			req.Stars = stars

			_, err := m.Open(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidStars)
		}

		require.Empty(t, platform.created)
		require.Empty(t, store.reserves)
		require.Empty(t, store.sets)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		req := openReq()
		req.Category = "Gardening"

		_, err := m.Open(context.Background(), req)
		require.ErrorIs(t, err, ErrUnknownCategory)
		require.Empty(t, platform.created)
	})

	t.Run("duplicate ticket creates no channel", func(t *testing.T) {
		guild := designGuild()
		guild.Tickets = map[string]map[string]string{
			"Design": {"user-alice": "chan-existing"},
		}
		store := &fakeStore{guild: guild}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		_, err := m.Open(context.Background(), openReq())

		dup := new(DuplicateTicketError)
		require.ErrorAs(t, err, &dup)
		require.Equal(t, "chan-existing", dup.ChannelID)
		require.Empty(t, platform.created)
		require.Empty(t, store.reserves)
	})

	t.Run("lost reservation deletes the fresh channel", func(t *testing.T) {
		guild := designGuild()
		store := &fakeStore{guild: guild, reserveDenied: true}
		platform := &fakePlatform{nextChannelID: "chan-loser"}
		m := NewManager(testLogger(), store, platform)

		// The winner's entry is visible on the re-fetch.
		guild.Tickets = map[string]map[string]string{
			"Design": {"user-alice": "chan-winner"},
		}

		_, err := m.Open(context.Background(), openReq())

		dup := new(DuplicateTicketError)
		require.ErrorAs(t, err, &dup)
		require.Equal(t, "chan-winner", dup.ChannelID)
		require.Equal(t, []string{"chan-loser"}, platform.deleted)
		require.Empty(t, store.sets)
	})

	t.Run("failed reservation writes neither index entry", func(t *testing.T) {
		store := &fakeStore{guild: designGuild(), reserveErr: errors.New("write concern failed")}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		_, err := m.Open(context.Background(), openReq())
		require.ErrorContains(t, err, "write concern failed")

		// The guarded write is all-or-nothing, so a user is never left with a
		// primary entry that Close cannot resolve through the channel index.
		require.Empty(t, store.reserves)
		require.Empty(t, store.sets)
	})

	t.Run("store fetch error propagates", func(t *testing.T) {
		store := &fakeStore{getErr: errors.New("mongo down")}
		platform := &fakePlatform{nextChannelID: "chan-new"}
		m := NewManager(testLogger(), store, platform)

		_, err := m.Open(context.Background(), openReq())
		require.ErrorContains(t, err, "mongo down")
	})
}

func TestManager_Close(t *testing.T) {
	openGuild := func() *entities.GuildData {
		guild := designGuild()
		guild.Tickets = map[string]map[string]string{
			"Design": {"user-alice": "chan-ticket"},
		}
		guild.TicketChannels = map[string]entities.TicketRef{
			"chan-ticket": {Category: "Design", UserID: "user-alice"},
		}
		return guild
	}

	closeReq := func() *CloseRequest {
		return &CloseRequest{
			GuildID:         "guild-1",
			ChannelID:       "chan-ticket",
			ChannelParentID: "cat-tickets",
			CloserID:        "user-staff",
			CloserName:      "staffer",
			CloserIsStaff:   true,
		}
	}

	t.Run("removes the ticket and emits the closure record", func(t *testing.T) {
		store := &fakeStore{guild: openGuild()}
		platform := &fakePlatform{transcript: "hello world", memberName: "alice"}
		m := NewManager(testLogger(), store, platform)

		require.NoError(t, m.Close(context.Background(), closeReq()))

		require.Equal(t, []string{"chan-ticket"}, platform.sealed)
		require.Equal(t, []string{"tickets.Design.user-alice", "ticket_channels.chan-ticket"}, store.unsets)
		require.Equal(t, []string{"chan-ticket"}, platform.deleted)

		require.Len(t, platform.embeds, 1)
		require.Equal(t, "chan-logs", platform.embeds[0].channelID)
		require.Equal(t, "transcript-chan-ticket.txt", platform.embeds[0].filename)
		require.Equal(t, "hello world", platform.embeds[0].file)
		require.Contains(t, platform.embeds[0].embed.Description, "**Category**: Design")
		require.Contains(t, platform.embeds[0].embed.Description, "alice")
	})

	t.Run("outside the tickets area", func(t *testing.T) {
		store := &fakeStore{guild: openGuild()}
		platform := &fakePlatform{}
		m := NewManager(testLogger(), store, platform)

		req := closeReq()
		req.ChannelParentID = "cat-general"

		require.ErrorIs(t, m.Close(context.Background(), req), ErrNotTicketChannel)
		require.Empty(t, platform.sealed)
	})

	t.Run("non-staff non-admin is forbidden and mutates nothing", func(t *testing.T) {
		store := &fakeStore{guild: openGuild()}
		platform := &fakePlatform{}
		m := NewManager(testLogger(), store, platform)

		req := closeReq()
		req.CloserIsStaff = false

		require.ErrorIs(t, m.Close(context.Background(), req), ErrForbidden)
		require.Empty(t, platform.sealed)
		require.Empty(t, platform.deleted)
		require.Empty(t, store.unsets)
	})

	t.Run("admin without the role may close", func(t *testing.T) {
		store := &fakeStore{guild: openGuild()}
		platform := &fakePlatform{}
		m := NewManager(testLogger(), store, platform)

		req := closeReq()
		req.CloserIsStaff = false
		req.CloserIsAdmin = true

		require.NoError(t, m.Close(context.Background(), req))
		require.Equal(t, []string{"chan-ticket"}, platform.deleted)
	})

	t.Run("transcript failure still completes the closure", func(t *testing.T) {
		store := &fakeStore{guild: openGuild()}
		platform := &fakePlatform{transcriptErr: errors.New("export failed")}
		m := NewManager(testLogger(), store, platform)

		require.NoError(t, m.Close(context.Background(), closeReq()))

		require.Equal(t, []string{"chan-ticket"}, platform.deleted)
		require.Equal(t, []string{"tickets.Design.user-alice", "ticket_channels.chan-ticket"}, store.unsets)
		require.Len(t, platform.embeds, 1)
		require.Empty(t, platform.embeds[0].filename)
		require.Contains(t, platform.embeds[0].embed.Description, "*unavailable*")
	})

	t.Run("missing index entry aborts silently after sealing", func(t *testing.T) {
		guild := openGuild()
		guild.TicketChannels = nil
		store := &fakeStore{guild: guild}
		platform := &fakePlatform{}
		m := NewManager(testLogger(), store, platform)

		require.NoError(t, m.Close(context.Background(), closeReq()))

		require.Equal(t, []string{"chan-ticket"}, platform.sealed)
		require.Empty(t, store.unsets)
		require.Empty(t, platform.deleted)
		require.Empty(t, platform.embeds)
	})
}

// The concrete scenario: alice opens a rated Design ticket, staff closes it.
func TestManager_OpenCloseScenario(t *testing.T) {
	guild := designGuild()
	store := &fakeStore{guild: guild}
	platform := &fakePlatform{nextChannelID: "chan-design", transcript: "transcript body"}
	m := NewManager(testLogger(), store, platform)

	res, err := m.Open(context.Background(), &OpenRequest{
		GuildID:       "guild-1",
		UserID:        "user-alice",
		Username:      "alice",
		Discriminator: "0420",
		Category:      "Design",
		Stars:         "2",
	})
	require.NoError(t, err)
	require.Equal(t, "design-alice-0420", platform.created[0].Name)

	// Mirror the reservation into the document the way Mongo would.
	guild.Tickets = map[string]map[string]string{
		"Design": {"user-alice": res.ChannelID},
	}
	guild.TicketChannels = map[string]entities.TicketRef{
		res.ChannelID: {Category: "Design", UserID: "user-alice"},
	}

	require.NoError(t, m.Close(context.Background(), &CloseRequest{
		GuildID:         "guild-1",
		ChannelID:       res.ChannelID,
		ChannelParentID: "cat-tickets",
		CloserID:        "user-staff",
		CloserName:      "staffer",
		CloserIsStaff:   true,
	}))

	require.Equal(t, []string{"tickets.Design.user-alice", "ticket_channels.chan-design"}, store.unsets)
	require.Equal(t, []string{"chan-design"}, platform.deleted)

	// One welcome embed and one closure record.
	require.Len(t, platform.embeds, 2)
	require.Equal(t, "chan-logs", platform.embeds[1].channelID)
	require.Contains(t, platform.embeds[1].embed.Description, "**Category**: Design")
}
