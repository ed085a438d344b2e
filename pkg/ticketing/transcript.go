package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

// RenderTranscript renders a channel's message history as a plain-text
// transcript. Messages are expected newest first, as the platform returns
// them, and are rendered oldest first. Attachments are listed by name and
// URL; embeds are reduced to their titles.
func RenderTranscript(channelName string, messages []*discordgo.Message) string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "Transcript of #%s\n", channelName)
	fmt.Fprintf(sb, "%d messages\n\n", len(messages))

	for idx := len(messages) - 1; idx >= 0; idx-- {
		msg := messages[idx]

		author := "unknown"
		if msg.Author != nil {
			author = msg.Author.Username
		}

		ts := msg.Timestamp.UTC().Format(time.RFC3339)
		fmt.Fprintf(sb, "[%s] %s: %s\n", ts, author, msg.Content)

		for _, attachment := range msg.Attachments {
			fmt.Fprintf(sb, "    [attachment] %s (%s)\n", attachment.Filename, attachment.URL)
		}
		for _, embed := range msg.Embeds {
			if embed.Title != "" {
				fmt.Fprintf(sb, "    [embed] %s\n", embed.Title)
			}
		}
	}
	return sb.String()
}
