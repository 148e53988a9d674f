package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, signin, password reset and session tokens.
type AuthService struct {
	userRepo    repositories.UserRepository
	notifier    notify.Notifier
	cfg         config.AuthConfig
	frontendURL string
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, notifier notify.Notifier, cfg config.AuthConfig, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		notifier:    notifier,
		cfg:         cfg,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user with the default permission set and returns it with
// a session token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	perms := make([]models.Permission, len(s.cfg.DefaultPermissions))
	copy(perms, s.cfg.DefaultPermissions)

	user := &models.User{
		Name:        strings.TrimSpace(name),
		Email:       NormalizeEmail(email),
		Password:    string(hashedPassword),
		Permissions: perms,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	slog.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return user, token, nil
}

// Signin checks credentials and returns the user with a session token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs an HS256 session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.cfg.TokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Identify resolves a session token to the caller's AuthContext, loading
// the current user record so permissions are never taken from the token.
func (s *AuthService) Identify(ctx context.Context, tokenString string) (models.AuthContext, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.AuthContext{}, err
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return models.AuthContext{}, fmt.Errorf("invalid token: missing user_id")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.AuthContext{}, err
	}
	return models.AuthContext{UserID: user.ID, User: user}, nil
}

// RequestReset stores a fresh reset token on the user and mails a link
// containing it.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	resetToken := hex.EncodeToString(buf)
	expiry := s.now().UTC().Add(s.cfg.ResetTokenTTL)

	user.ResetToken = &resetToken
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset?resetToken=%s", s.frontendURL, url.QueryEscape(resetToken))
	if err := s.notifier.SendResetLink(ctx, user.Email, link); err != nil {
		return fmt.Errorf("failed to send reset link: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for the holder of a live reset token,
// clears the token and signs the user in.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password, confirmPassword string) (*models.User, string, error) {
	if password != confirmPassword {
		return nil, "", models.ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByResetToken(ctx, resetToken, s.now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidOrExpiredToken
		}
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	slog.InfoContext(ctx, "password reset", slog.String("user_id", user.ID))
	return user, token, nil
}
