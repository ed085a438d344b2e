package entities

// TicketCategory is the definition of a ticket category.
type TicketCategory struct {
	// Description is the short description shown in the category picker.
	Description string `json:"description" bson:"description"`

	// Emoji is the glyph shown next to the category in the picker.
	Emoji string `json:"emoji" bson:"emoji"`

	// Prefix is the channel-name prefix for tickets opened in this category.
	Prefix string `json:"prefix" bson:"prefix"`
}

// SkillRoles is the set of role IDs tied to a ticket category.
type SkillRoles struct {
	// ManagerID is the ID of the role that manages tickets for the category.
	ManagerID string `json:"manager" bson:"manager"`

	// MemberID is the ID of the role granted to every user holding the skill.
	MemberID string `json:"member" bson:"member"`

	// Stars maps a star rating ("1", "2" or "3") to the role ID for that rating.
	Stars map[string]string `json:"stars" bson:"stars"`
}
