package ticketing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkillManager_Grant(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		stars     string
		wantErr   error
		wantRoles []string
	}{
		{
			name:      "grants member and star role",
			category:  "Design",
			stars:     "2",
			wantRoles: []string{"role-design", "role-design-2"},
		},
		{
			name:     "unknown category",
			category: "Gardening",
			stars:    "2",
			wantErr:  ErrUnknownCategory,
		},
		{
			name:     "invalid stars",
			category: "Design",
			stars:    "5",
			wantErr:  ErrInvalidStars,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{guild: designGuild()}
			platform := &fakePlatform{}
			m := NewSkillManager(testLogger(), store, platform)

			err := m.Grant(context.Background(), "guild-1", "user-bob", tt.category, tt.stars)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, platform.rolesAdded)
				return
			}

			require.NoError(t, err)
			require.Len(t, platform.rolesAdded, 1)
			require.Equal(t, tt.wantRoles, platform.rolesAdded[0])
		})
	}
}

func TestSkillManager_Revoke(t *testing.T) {
	t.Run("removes member role and every star role", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{}
		m := NewSkillManager(testLogger(), store, platform)

		require.NoError(t, m.Revoke(context.Background(), "guild-1", "user-bob", "Design"))

		require.Len(t, platform.rolesRemoved, 1)
		require.Equal(t, []string{"role-design", "role-design-1", "role-design-2", "role-design-3"}, platform.rolesRemoved[0])
	})

	t.Run("unknown category", func(t *testing.T) {
		store := &fakeStore{guild: designGuild()}
		platform := &fakePlatform{}
		m := NewSkillManager(testLogger(), store, platform)

		err := m.Revoke(context.Background(), "guild-1", "user-bob", "Gardening")
		require.ErrorIs(t, err, ErrUnknownCategory)
		require.Empty(t, platform.rolesRemoved)
	})
}
