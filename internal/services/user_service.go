package services

import (
	"context"
	"log/slog"

	"storefront/internal/guards"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// UserService manages accounts on behalf of administrators.
type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// authorizeAdmin re-reads the caller so a just-revoked grant takes effect.
func (s *UserService) authorizeAdmin(ctx context.Context, ac models.AuthContext) error {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return err
	}
	caller, err := s.userRepo.GetByID(ctx, ac.UserID)
	if err != nil {
		return err
	}
	fresh := models.AuthContext{UserID: caller.ID, User: caller}
	return guards.RequirePermissions(fresh, models.PermissionAdmin, models.PermissionPermissionUpdate).Err()
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context, ac models.AuthContext) ([]models.User, error) {
	if err := s.authorizeAdmin(ctx, ac); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

// UpdatePermissions replaces the target user's permissions with perms.
func (s *UserService) UpdatePermissions(ctx context.Context, ac models.AuthContext, targetID string, perms []models.Permission) (*models.User, error) {
	if err := s.authorizeAdmin(ctx, ac); err != nil {
		return nil, err
	}

	deduped := make([]models.Permission, 0, len(perms))
	seen := make(map[models.Permission]bool, len(perms))
	for _, p := range perms {
		if !p.Valid() {
			return nil, models.NewError(models.KindValidation, "unknown permission "+string(p), nil)
		}
		if !seen[p] {
			seen[p] = true
			deduped = append(deduped, p)
		}
	}

	if err := s.userRepo.UpdatePermissions(ctx, targetID, deduped); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "permissions updated",
		slog.String("user_id", targetID),
		slog.String("by", ac.UserID),
		slog.Any("permissions", deduped),
	)
	return s.userRepo.GetByID(ctx, targetID)
}
