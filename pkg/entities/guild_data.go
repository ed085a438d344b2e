package entities

// GuildData is the per-guild settings document. Mutations to the ticket
// index and the well-known IDs go through field-level $set/$unset updates
// rather than whole-document saves.
type GuildData struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id"`

	// TicketsChannelID is the ID of the channel holding the tickets panel message.
	TicketsChannelID string `json:"tickets_channel_id" bson:"tickets_channel_id,omitempty"`

	// TicketsMessageID is the ID of the persistent tickets panel message.
	TicketsMessageID string `json:"tickets_message_id" bson:"tickets_message_id,omitempty"`

	// TicketsCategoryID is the ID of the category channel that ticket channels are created under.
	TicketsCategoryID string `json:"tickets_category_id" bson:"tickets_category_id,omitempty"`

	// TicketLogsChannelID is the ID of the channel that closure records are sent to.
	TicketLogsChannelID string `json:"ticket_logs_channel_id" bson:"ticket_logs_channel_id,omitempty"`

	// ManagerRoleID is the ID of the staff role that is allowed to close tickets.
	ManagerRoleID string `json:"manager_role_id" bson:"manager_role_id,omitempty"`

	// Categories maps a ticket category name to its definition.
	Categories map[string]TicketCategory `json:"categories" bson:"categories,omitempty"`

	// SkillRoles maps a ticket category name to the roles granted for it.
	SkillRoles map[string]SkillRoles `json:"skill_roles" bson:"skill_roles,omitempty"`

	// Tickets maps a category name to the map of user ID to open ticket channel ID.
	Tickets map[string]map[string]string `json:"tickets" bson:"tickets,omitempty"`

	// TicketChannels maps an open ticket channel ID back to its (category, user)
	// pair, so that closing a channel never scans the whole index.
	TicketChannels map[string]TicketRef `json:"ticket_channels" bson:"ticket_channels,omitempty"`
}

// OpenTicket returns the channel ID of the user's open ticket in the given
// category, or an empty string if there is none.
func (g *GuildData) OpenTicket(category, userID string) string {
	if g.Tickets == nil {
		return ""
	}
	return g.Tickets[category][userID]
}

// TicketRef identifies an open ticket from its channel.
type TicketRef struct {
	// Category is the ticket category the channel was opened in.
	Category string `json:"category" bson:"category"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"user_id" bson:"user_id"`
}
