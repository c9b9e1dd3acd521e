package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/model"
	"github.com/mesa-desk/mesa/utils"
)

// Service manages user accounts and roles.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateUserInput carries a new account definition.
type CreateUserInput struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Login      string  `json:"login"`
	Password   string  `json:"password"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
}

// Validate enforces account rules: a name, a well-formed email, a login of at
// least 3 characters and a password of at least 8.
func (in *CreateUserInput) Validate() error {
	var problems []string

	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, "email is not a valid address")
	}
	if len(strings.TrimSpace(in.Login)) < 3 {
		problems = append(problems, "login must be at least 3 characters")
	}
	if len(in.Password) < 8 {
		problems = append(problems, "password must be at least 8 characters")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// UpdateUserInput carries a partial account update. Nil fields are left as-is.
type UpdateUserInput struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
}

// ChangePasswordInput carries a password change for the acting user.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Create registers a new active user. Email and login are unique among
// non-deleted users.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, in *CreateUserInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var taken int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("(email = ? OR login = ?) AND is_deleted = ?", in.Email, in.Login, false).
		Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("%w: email or login already in use", model.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		Login:        in.Login,
		PasswordHash: hash,
		IsActive:     true,
		Phone:        in.Phone,
		Department:   in.Department,
		Position:     in.Position,
	}
	user.CreatedBy = actor.UserName

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "login", user.Login)
	return &user, nil
}

// Get loads a user by id.
func (s *Service) Get(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Scopes(model.Active).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", model.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns a page of users, optionally narrowed by a search term over
// name, email and login.
func (s *Service) List(ctx context.Context, search *string, pageNumber, pageSize *int) (*utils.PagedResult[model.User], error) {
	page, size := utils.GetPaginationParams(pageNumber, pageSize)

	query := s.db.WithContext(ctx).Model(&model.User{}).Scopes(model.Active)
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR login ILIKE ?", pattern, pattern, pattern)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []model.User
	err := query.Order("name ASC").
		Offset(utils.Offset(page, size)).
		Limit(size).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := utils.NewPagedResult(users, totalCount, page, size)
	return &result, nil
}

// Update applies a partial update to a user.
func (s *Service) Update(ctx context.Context, actor *auth.Actor, userID uint, in *UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
		"updated_by": actor.UserName,
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", model.ErrValidation)
		}
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			return nil, fmt.Errorf("%w: email is not a valid address", model.ErrValidation)
		}
		var taken int64
		err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("email = ? AND id <> ? AND is_deleted = ?", *in.Email, user.ID, false).
			Count(&taken).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if taken > 0 {
			return nil, fmt.Errorf("%w: email already in use", model.ErrConflict)
		}
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Department != nil {
		updates["department"] = *in.Department
	}
	if in.Position != nil {
		updates["position"] = *in.Position
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.Get(ctx, user.ID)
}

// ChangePassword rotates the acting user's password after verifying the
// current one, and closes all of their sessions.
func (s *Service) ChangePassword(ctx context.Context, actor *auth.Actor, in *ChangePasswordInput) error {
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters", model.ErrValidation)
	}

	user, err := s.Get(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", model.ErrUnauthorized)
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Updates(map[string]any{
				"password_hash": hash,
				"updated_at":    time.Now().UTC(),
				"updated_by":    actor.UserName,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		err = tx.Model(&model.UserSession{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("failed to close sessions: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a user and closes their sessions.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, userID uint) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Updates(map[string]any{
				"is_deleted": true,
				"is_active":  false,
				"updated_at": time.Now().UTC(),
				"updated_by": actor.UserName,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		err = tx.Model(&model.UserSession{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Update("is_active", false).Error
		if err != nil {
			return fmt.Errorf("failed to close sessions: %w", err)
		}
		return nil
	})
}

// ListRoles returns all non-deleted roles.
func (s *Service) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := s.db.WithContext(ctx).Scopes(model.Active).Order("name ASC").Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetRole loads a role by id.
func (s *Service) GetRole(ctx context.Context, roleID uint) (*model.Role, error) {
	var role model.Role
	err := s.db.WithContext(ctx).Scopes(model.Active).Where("id = ?", roleID).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: role %d not found", model.ErrNotFound, roleID)
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	return &role, nil
}
