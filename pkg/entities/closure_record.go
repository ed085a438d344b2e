package entities

import (
	"github.com/Littie6amer/discord-bot-owners/pkg/custom"
)

// ClosureRecord is the audit record emitted when a ticket is closed. It is
// write-once: rendered into the ticket logs channel and never persisted in
// the guild document.
type ClosureRecord struct {
	// ID is a unique identifier for the record.
	ID string `json:"id"`

	// GuildID is the ID of the guild the ticket belonged to.
	GuildID string `json:"guild_id"`

	// UserID is the ID of the user that opened the ticket.
	UserID string `json:"user_id"`

	// Username is the username of the user that opened the ticket, if known.
	Username string `json:"username"`

	// CloserID is the ID of the staff member that closed the ticket.
	CloserID string `json:"closer_id"`

	// CloserName is the username of the staff member that closed the ticket.
	CloserName string `json:"closer_name"`

	// Category is the ticket category.
	Category string `json:"category"`

	// TranscriptFile is the attachment filename of the transcript, or empty
	// when transcript generation was unavailable.
	TranscriptFile string `json:"transcript_file"`

	// ClosedAt is the time the ticket was closed.
	ClosedAt custom.Datetime `json:"closed_at"`
}
