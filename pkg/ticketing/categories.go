package ticketing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Littie6amer/discord-bot-owners/pkg/entities"
)

// SupportCategory is the sentinel category for general support tickets. It
// needs no configuration, has no star rating and is handled by administrators
// rather than a category manager role.
const SupportCategory = "Support"

// ValidStars reports whether the given star rating is one of "1", "2" or "3".
func ValidStars(stars string) bool {
	switch stars {
	case "1", "2", "3":
		return true
	default:
		return false
	}
}

// ValidCategoryName reports whether a name can key the guild document's
// category maps. Dots and dollars would corrupt the dotted update paths built
// from the name.
func ValidCategoryName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ".$")
}

// TicketChannelName composes the deterministic channel name for a ticket.
func TicketChannelName(prefix, username, discriminator string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s", prefix, username, discriminator))
}

// MatchCategories returns the configured category names containing the query,
// case-insensitively, sorted for a stable autocomplete order.
func MatchCategories(categories map[string]entities.TicketCategory, query string) []string {
	q := strings.ToLower(query)

	matches := make([]string, 0, len(categories))
	for name := range categories {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
