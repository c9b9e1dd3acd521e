package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/config"
	"github.com/mesa-desk/mesa/internal/model"
)

// AuthService issues credentials and manages user sessions.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenIssuer
	cfg    config.JWTConfig
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, cfg config.JWTConfig) *AuthService {
	return &AuthService{db: db, tokens: tokens, cfg: cfg}
}

// LoginResult carries the issued credentials and user identity.
type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         *model.User `json:"user"`
}

// Login verifies credentials and issues an access token plus an opaque
// refresh token persisted as a user session.
func (s *AuthService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: login and password are required", model.ErrValidation)
	}

	var user model.User
	result := s.db.WithContext(ctx).Scopes(model.Active).Where("login = ?", login).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Warn("login attempt for unknown user", "login", login)
			return nil, fmt.Errorf("%w: invalid login credentials", model.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", result.Error)
	}

	if !CheckPassword(user.PasswordHash, password) {
		slog.Warn("login attempt with invalid password", "login", login)
		return nil, fmt.Errorf("%w: invalid login credentials", model.ErrUnauthorized)
	}

	if !user.IsActive {
		slog.Warn("login attempt for inactive user", "login", login)
		return nil, fmt.Errorf("%w: user account is inactive", model.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.AccessToken(&user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	session := model.UserSession{
		UserID:    user.ID,
		SessionID: refreshToken,
		Login:     user.Login,
		ExpiresAt: time.Now().UTC().Add(s.cfg.RefreshTokenTTL),
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create user session: %w", err)
	}

	slog.Info("user logged in", "login", user.Login, "user_id", user.ID)

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         &user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token and a
// rotated refresh token. The old session is deactivated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", model.ErrValidation)
	}

	var session model.UserSession
	result := s.db.WithContext(ctx).Scopes(model.Active).
		Where("session_id = ? AND is_active = ?", refreshToken, true).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", model.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up session: %w", result.Error)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", model.ErrUnauthorized)
	}

	var user model.User
	if err := s.db.WithContext(ctx).Scopes(model.Active).First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session user no longer exists", model.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is inactive", model.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.AccessToken(&user)
	if err != nil {
		return nil, err
	}

	newRefreshToken := uuid.NewString()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.UserSession{}).
			Where("id = ?", session.ID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate session: %w", err)
		}
		newSession := model.UserSession{
			UserID:    user.ID,
			SessionID: newRefreshToken,
			Login:     user.Login,
			ExpiresAt: time.Now().UTC().Add(s.cfg.RefreshTokenTTL),
			IsActive:  true,
		}
		if err := tx.Create(&newSession).Error; err != nil {
			return fmt.Errorf("failed to rotate session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: newRefreshToken,
		ExpiresAt:    expiresAt,
		User:         &user,
	}, nil
}

// Logout deactivates every active session of the acting user.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	result := s.db.WithContext(ctx).Model(&model.UserSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate sessions: %w", result.Error)
	}
	slog.Info("user logged out", "user_id", userID, "sessions_closed", result.RowsAffected)
	return nil
}
