package ticketing

import (
	"testing"

	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestMatchCategories(t *testing.T) {
	categories := map[string]entities.TicketCategory{
		"Design":     {Prefix: "design"},
		"Backend":    {Prefix: "backend"},
		"Moderation": {Prefix: "mod"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "empty query matches everything",
			query: "",
			want:  []string{"Backend", "Design", "Moderation"},
		},
		{
			name:  "case insensitive substring",
			query: "DE",
			want:  []string{"Backend", "Design", "Moderation"},
		},
		{
			name:  "prefix",
			query: "des",
			want:  []string{"Design"},
		},
		{
			name:  "no match",
			query: "frontend",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MatchCategories(categories, tt.query))
		})
	}
}

func TestTicketChannelName(t *testing.T) {
	require.Equal(t, "design-alice-0420", TicketChannelName("design", "alice", "0420"))
	require.Equal(t, "support-bob-0001", TicketChannelName("support", "Bob", "0001"))
}

func TestValidCategoryName(t *testing.T) {
	for _, name := range []string{"Design", "Game Dev", "c++"} {
		require.True(t, ValidCategoryName(name), name)
	}
	// Dotted-path breakers and the empty name are rejected.
	for _, name := range []string{"", "a.b", ".", "$set", "pri$ce"} {
		require.False(t, ValidCategoryName(name), name)
	}
}

func TestValidStars(t *testing.T) {
	for _, stars := range []string{"1", "2", "3"} {
		require.True(t, ValidStars(stars), stars)
	}
	for _, stars := range []string{"", "0", "4", "12", "one"} {
		require.False(t, ValidStars(stars), stars)
	}
}
