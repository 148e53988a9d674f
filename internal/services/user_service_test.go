package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := repositories.NewGORMUserRepository(db)
	svc := services.NewUserService(users)

	admin := seedUser(t, users, "admin@example.com", models.PermissionAdmin)
	granter := seedUser(t, users, "granter@example.com", models.PermissionPermissionUpdate)
	member := seedUser(t, users, "member@example.com", models.PermissionUser)

	t.Run("admin replaces the set", func(t *testing.T) {
		updated, err := svc.UpdatePermissions(ctx, admin, member.UserID, []models.Permission{
			models.PermissionUser, models.PermissionItemCreate, models.PermissionItemCreate,
		})
		require.NoError(t, err)
		assert.Equal(t, []models.Permission{models.PermissionUser, models.PermissionItemCreate}, updated.Permissions)
	})

	t.Run("permission updater may grant", func(t *testing.T) {
		updated, err := svc.UpdatePermissions(ctx, granter, member.UserID, []models.Permission{models.PermissionUser})
		require.NoError(t, err)
		assert.Equal(t, []models.Permission{models.PermissionUser}, updated.Permissions)
	})

	t.Run("plain user is denied", func(t *testing.T) {
		_, err := svc.UpdatePermissions(ctx, member, admin.UserID, []models.Permission{})
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})

	t.Run("stale context does not keep a revoked grant", func(t *testing.T) {
		require.NoError(t, users.UpdatePermissions(ctx, granter.UserID, []models.Permission{models.PermissionUser}))
		// granter still carries PERMISSIONUPDATE in its context.
		_, err := svc.UpdatePermissions(ctx, granter, member.UserID, nil)
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := svc.UpdatePermissions(ctx, admin, member.UserID, []models.Permission{"SUPERUSER"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := svc.UpdatePermissions(ctx, admin, "ghost", []models.Permission{models.PermissionUser})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	svc := services.NewUserService(users)
	admin := seedUser(t, users, "admin@example.com", models.PermissionAdmin)
	member := seedUser(t, users, "member@example.com", models.PermissionUser)

	list, err := svc.ListUsers(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListUsers(context.Background(), member)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.ListUsers(context.Background(), models.AuthContext{})
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}
