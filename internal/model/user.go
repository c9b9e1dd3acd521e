package model

import "time"

// User is a directory entry referenced by requests, steps and comments.
// Users are never hard-deleted; deactivation and soft-delete keep the
// audit trail of their requests intact.
type User struct {
	BaseModel
	Name         string  `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Email        string  `gorm:"type:varchar(255);column:email;not null;uniqueIndex" json:"email"`
	Login        string  `gorm:"type:varchar(100);column:login;not null;uniqueIndex" json:"login"`
	PasswordHash string  `gorm:"type:varchar(255);column:password_hash;not null" json:"-"`
	IsActive     bool    `gorm:"type:boolean;column:is_active;not null;default:true" json:"isActive"`
	Phone        *string `gorm:"type:varchar(50);column:phone" json:"phone,omitempty"`
	Department   *string `gorm:"type:varchar(100);column:department" json:"department,omitempty"`
	Position     *string `gorm:"type:varchar(100);column:position" json:"position,omitempty"`
}

func (u *User) TableName() string {
	return "users"
}

// UserSession tracks an issued refresh token. Logout deactivates the session;
// refresh rotates it.
type UserSession struct {
	BaseModel
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	SessionID string    `gorm:"type:varchar(100);column:session_id;not null;uniqueIndex" json:"sessionId"`
	Login     string    `gorm:"type:varchar(100);column:login;not null" json:"login"`
	ExpiresAt time.Time `gorm:"type:timestamptz;column:expires_at;not null" json:"expiresAt"`
	IsActive  bool      `gorm:"type:boolean;column:is_active;not null;default:true" json:"isActive"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *UserSession) TableName() string {
	return "user_sessions"
}

// Role is a named responsibility that workflow steps can be assigned to.
type Role struct {
	BaseModel
	Name        string  `gorm:"type:varchar(100);column:name;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text;column:description" json:"description,omitempty"`
	IsActive    bool    `gorm:"type:boolean;column:is_active;not null;default:true" json:"isActive"`
}

func (r *Role) TableName() string {
	return "roles"
}
