package ticketing

import (
	"context"
	"fmt"
	"log/slog"
)

// SkillManager grants and revokes skill badge roles. Both operations are
// plain role-set mutations on the platform side and are safe to retry.
type SkillManager struct {
	// l is the logger.
	l *slog.Logger

	// store is the guild settings store.
	store Store

	// platform is the chat platform.
	platform Platform
}

// NewSkillManager creates a new skill manager.
func NewSkillManager(l *slog.Logger, store Store, platform Platform) *SkillManager {
	return &SkillManager{
		l:        l,
		store:    store,
		platform: platform,
	}
}

// Grant assigns the category membership role and the star-specific role to
// the user. The category must be configured for the guild.
func (m *SkillManager) Grant(ctx context.Context, guildID, userID, category, stars string) error {
	if !ValidStars(stars) {
		return ErrInvalidStars
	}

	guild, err := m.store.GetGuildData(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	if _, ok := guild.Categories[category]; !ok {
		return ErrUnknownCategory
	}

	roles := guild.SkillRoles[category]
	if roles.MemberID == "" || roles.Stars[stars] == "" {
		return fmt.Errorf("no roles configured for category %s with %s stars", category, stars)
	}

	if err := m.platform.AddMemberRoles(guildID, userID, roles.MemberID, roles.Stars[stars]); err != nil {
		return fmt.Errorf("error adding skill roles: %w", err)
	}
	return nil
}

// Revoke removes the category membership role and every star role for the
// category from the user.
func (m *SkillManager) Revoke(ctx context.Context, guildID, userID, category string) error {
	guild, err := m.store.GetGuildData(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error getting guild data: %w", err)
	}

	if _, ok := guild.Categories[category]; !ok {
		return ErrUnknownCategory
	}

	roles := guild.SkillRoles[category]

	remove := make([]string, 0, 4)
	if roles.MemberID != "" {
		remove = append(remove, roles.MemberID)
	}
	for _, stars := range []string{"1", "2", "3"} {
		if id := roles.Stars[stars]; id != "" {
			remove = append(remove, id)
		}
	}
	if len(remove) == 0 {
		return fmt.Errorf("no roles configured for category %s", category)
	}

	if err := m.platform.RemoveMemberRoles(guildID, userID, remove...); err != nil {
		return fmt.Errorf("error removing skill roles: %w", err)
	}
	return nil
}
