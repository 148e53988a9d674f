package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/security"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemFixture struct {
	items   *repositories.GORMItemRepository
	users   *repositories.GORMUserRepository
	service *services.ItemService
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	db := newTestDB(t)
	items := repositories.NewGORMItemRepository(db)
	return &itemFixture{
		items:   items,
		users:   repositories.NewGORMUserRepository(db),
		service: services.NewItemService(items, passthroughSanitizer{}),
	}
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func TestItemService_CreateItem(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	seller := seedUser(t, f.users, "seller@example.com", models.PermissionUser, models.PermissionItemCreate)
	plain := seedUser(t, f.users, "plain@example.com", models.PermissionUser)

	t.Run("creator owns the item", func(t *testing.T) {
		item, err := f.service.CreateItem(ctx, seller, services.ItemInput{Title: "lamp", Price: 1299})
		require.NoError(t, err)
		assert.Equal(t, seller.UserID, item.UserID)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("missing permission", func(t *testing.T) {
		_, err := f.service.CreateItem(ctx, plain, services.ItemInput{Title: "lamp", Price: 1})
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.service.CreateItem(ctx, models.AuthContext{}, services.ItemInput{Title: "lamp", Price: 1})
		assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.service.CreateItem(ctx, seller, services.ItemInput{Title: "", Price: 1})
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = f.service.CreateItem(ctx, seller, services.ItemInput{Title: "x", Price: -1})
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = f.service.CreateItem(ctx, seller, services.ItemInput{Title: "x", Price: models.MaxItemPrice + 1})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("price at the cap", func(t *testing.T) {
		item, err := f.service.CreateItem(ctx, seller, services.ItemInput{Title: "yacht", Price: models.MaxItemPrice})
		require.NoError(t, err)
		assert.Equal(t, models.MaxItemPrice, item.Price)
	})
}

func TestItemService_CreateItemSanitizesText(t *testing.T) {
	db := newTestDB(t)
	items := repositories.NewGORMItemRepository(db)
	svc := services.NewItemService(items, security.NewTextSanitizer())
	seller := seedUser(t, repositories.NewGORMUserRepository(db), "s@example.com", models.PermissionItemCreate)

	item, err := svc.CreateItem(context.Background(), seller, services.ItemInput{
		Title:       "<b>Lamp</b>",
		Description: "bright<script>alert(1)</script>",
		Price:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", item.Title)
	assert.Equal(t, "bright", item.Description)
}

func TestItemService_OwnerWithoutDeletePermissionIsDenied(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.users, "owner@example.com", models.PermissionUser, models.PermissionItemCreate)
	item := seedItem(t, f.items, owner.UserID, "vase", 900)

	_, err := f.service.DeleteItem(ctx, owner, item.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	still, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, still.ID)
}

func TestItemService_NonOwnerIsDenied(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.users, "owner@example.com", models.PermissionItemCreate)
	other := seedUser(t, f.users, "other@example.com", models.PermissionItemUpdate, models.PermissionItemDelete)
	item := seedItem(t, f.items, owner.UserID, "vase", 900)

	_, err := f.service.UpdateItem(ctx, other, item.ID, services.ItemUpdate{Price: i64Ptr(1)})
	assert.ErrorIs(t, err, models.ErrOwnershipDenied)

	_, err = f.service.DeleteItem(ctx, other, item.ID)
	assert.ErrorIs(t, err, models.ErrOwnershipDenied)

	unchanged, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), unchanged.Price)
}

func TestItemService_UpdateItem(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.users, "owner@example.com", models.PermissionItemUpdate)
	item := seedItem(t, f.items, owner.UserID, "vase", 900)

	updated, err := f.service.UpdateItem(ctx, owner, item.ID, services.ItemUpdate{
		Title: strPtr("tall vase"),
		Price: i64Ptr(1200),
	})
	require.NoError(t, err)
	assert.Equal(t, "tall vase", updated.Title)
	assert.Equal(t, item.Description, updated.Description)

	stored, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), stored.Price)
	assert.Equal(t, owner.UserID, stored.UserID)

	_, err = f.service.UpdateItem(ctx, owner, item.ID, services.ItemUpdate{Title: strPtr("")})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.service.UpdateItem(ctx, owner, item.ID, services.ItemUpdate{Price: i64Ptr(models.MaxItemPrice + 1)})
	assert.ErrorIs(t, err, models.ErrValidation)
	stored, err = f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), stored.Price)
}

func TestItemService_AdminBypassesOwnership(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.users, "owner@example.com", models.PermissionItemCreate)
	admin := seedUser(t, f.users, "admin@example.com", models.PermissionAdmin)
	item := seedItem(t, f.items, owner.UserID, "vase", 900)

	deleted, err := f.service.DeleteItem(ctx, admin, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, deleted.ID)

	_, err = f.items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestItemService_MissingItem(t *testing.T) {
	f := newItemFixture(t)
	admin := seedUser(t, f.users, "admin@example.com", models.PermissionAdmin)

	_, err := f.service.GetItemByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.service.DeleteItem(context.Background(), admin, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
