package services_test

import (
	"context"
	"testing"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// seedUser stores a user holding perms and returns its AuthContext.
func seedUser(t *testing.T, repo repositories.UserRepository, email string, perms ...models.Permission) models.AuthContext {
	t.Helper()
	u := &models.User{Name: email, Email: email, Password: "x", Permissions: perms}
	require.NoError(t, repo.Create(context.Background(), u))
	return models.AuthContext{UserID: u.ID, User: u}
}

func seedItem(t *testing.T, repo repositories.ItemRepository, ownerID, title string, price int64) *models.Item {
	t.Helper()
	item := &models.Item{Title: title, Description: title + " description", Image: "https://img/" + title, Price: price, UserID: ownerID}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, amount int64, currency, source string) (*payment.Charge, error) {
	args := m.Called(ctx, amount, currency, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, queue string, payload any) error {
	args := m.Called(ctx, queue, payload)
	return args.Error(0)
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(s string) string { return s }
