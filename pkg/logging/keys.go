package logging

const (
	// KeyAppName is the attribute key for the application name.
	KeyAppName = "app"

	// KeyError is the attribute key for errors.
	KeyError = "err"

	// KeyDal is the attribute key for the data access layer name.
	KeyDal = "dal"

	// KeyGuild is the attribute key for the guild ID.
	KeyGuild = "guild_id"

	// KeyChannel is the attribute key for the channel ID.
	KeyChannel = "channel_id"

	// KeyUser is the attribute key for the user ID.
	KeyUser = "user_id"

	// KeyCategory is the attribute key for the ticket category.
	KeyCategory = "category"
)
