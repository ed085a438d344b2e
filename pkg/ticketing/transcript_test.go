package ticketing

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestRenderTranscript(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Newest first, as the platform returns history.
	messages := []*discordgo.Message{
		{
			Author:    &discordgo.User{Username: "staffer"},
			Content:   "Closing this now.",
			Timestamp: base.Add(2 * time.Minute),
		},
		{
			Author:    &discordgo.User{Username: "alice"},
			Content:   "Here is my portfolio.",
			Timestamp: base.Add(time.Minute),
			Attachments: []*discordgo.MessageAttachment{
				{Filename: "portfolio.pdf", URL: "https://cdn.example/portfolio.pdf"},
			},
		},
		{
			Author:    &discordgo.User{Username: "alice"},
			Content:   "Hello!",
			Timestamp: base,
		},
	}

	got := RenderTranscript("design-alice-0420", messages)

	require.Contains(t, got, "Transcript of #design-alice-0420")
	require.Contains(t, got, "3 messages")
	require.Contains(t, got, "[attachment] portfolio.pdf (https://cdn.example/portfolio.pdf)")

	// Oldest first.
	require.Regexp(t, `(?s)Hello!.*portfolio.*Closing this now\.`, got)
}

func TestRenderTranscript_NoAuthor(t *testing.T) {
	got := RenderTranscript("support-bob-0001", []*discordgo.Message{
		{Content: "system message"},
	})
	require.Contains(t, got, "unknown: system message")
}
