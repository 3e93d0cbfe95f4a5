package domain

import (
	"testing"

	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	t.Parallel()

	admin := &User{ID: idx.New(), Role: RoleAdmin}
	staff := &User{ID: idx.New(), Role: RoleStaff}
	client := &User{ID: idx.New(), Role: RoleClient}

	t.Run("matching role allows", func(t *testing.T) {
		require.True(t, RequireRole(admin, RoleAdmin).Allowed())
		require.True(t, RequireRole(staff, RoleStaff).Allowed())
		require.True(t, RequireRole(client, RoleClient).Allowed())
	})

	t.Run("anonymous always denied", func(t *testing.T) {
		for _, role := range Roles() {
			require.False(t, RequireRole(nil, role).Allowed())
		}
	})

	t.Run("no role hierarchy", func(t *testing.T) {
		// admin does not satisfy staff-only or client-only checks
		require.False(t, RequireRole(admin, RoleStaff).Allowed())
		require.False(t, RequireRole(admin, RoleClient).Allowed())
		require.False(t, RequireRole(staff, RoleAdmin).Allowed())
		require.False(t, RequireRole(staff, RoleClient).Allowed())
		require.False(t, RequireRole(client, RoleAdmin).Allowed())
		require.False(t, RequireRole(client, RoleStaff).Allowed())
	})
}

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	require.False(t, RequireAuthenticated(nil).Allowed())
	require.True(t, RequireAuthenticated(&User{ID: idx.New(), Role: RoleClient}).Allowed())
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	ownerID := idx.New()
	otherID := idx.New()

	owner := &User{ID: ownerID, Role: RoleClient}
	other := &User{ID: otherID, Role: RoleClient}
	admin := &User{ID: idx.New(), Role: RoleAdmin}
	staff := &User{ID: idx.New(), Role: RoleStaff}

	doc := Document{ID: idx.New(), ClientID: ownerID}

	t.Run("owner allowed", func(t *testing.T) {
		require.True(t, RequireOwnerOrAdmin(owner, doc).Allowed())
	})

	t.Run("foreign principal denied", func(t *testing.T) {
		require.False(t, RequireOwnerOrAdmin(other, doc).Allowed())
		require.False(t, RequireOwnerOrAdmin(staff, doc).Allowed())
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		require.True(t, RequireOwnerOrAdmin(admin, doc).Allowed())
	})

	t.Run("anonymous denied", func(t *testing.T) {
		require.False(t, RequireOwnerOrAdmin(nil, doc).Allowed())
	})

	t.Run("applies uniformly to owned resources", func(t *testing.T) {
		task := Task{ID: idx.New(), AssigneeID: ownerID}
		project := Project{ID: idx.New(), ClientID: ownerID}
		ticket := Ticket{ID: idx.New(), ClientID: ownerID}

		for _, res := range []Owned{task, project, ticket} {
			require.True(t, RequireOwnerOrAdmin(owner, res).Allowed())
			require.False(t, RequireOwnerOrAdmin(other, res).Allowed())
			require.True(t, RequireOwnerOrAdmin(admin, res).Allowed())
		}
	})
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"admin", "staff", "client"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		require.Equal(t, Role(s), role)
	}

	for _, s := range []string{"", "root", "Admin", "superuser"} {
		_, err := ParseRole(s)
		require.ErrorIs(t, err, ErrInvalidRole)
	}
}
