package ticketing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStars is returned when a requested star rating is not 1, 2 or 3.
	ErrInvalidStars = errors.New("the number of requested stars must be either 1, 2 or 3")

	// ErrUnknownCategory is returned when a category is not configured for the guild.
	ErrUnknownCategory = errors.New("this category does not exist")

	// ErrForbidden is returned when the actor is not allowed to perform the operation.
	ErrForbidden = errors.New("you are not allowed to do that")

	// ErrNotTicketChannel is returned when a close is invoked outside the tickets area.
	ErrNotTicketChannel = errors.New("this channel is not a ticket")
)

// DuplicateTicketError is returned when a user already has an open ticket in
// the category. It carries the existing channel so the caller can point the
// user at it.
type DuplicateTicketError struct {
	// ChannelID is the ID of the already open ticket channel.
	ChannelID string
}

func (e *DuplicateTicketError) Error() string {
	return fmt.Sprintf("a ticket is already open in this category in channel %s", e.ChannelID)
}
