package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxUsernameLength = 20
	MaxFullNameLength = 40
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	FullName     *string   `json:"full_name" gorm:"size:40"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RegisterInput is a new account. IsActive defaults to true when nil.
type RegisterInput struct {
	Username string
	Password string
	FullName *string
	IsActive *bool
}

// UpdateInput holds the fields of a partial update; nil fields are left
// unchanged.
type UpdateInput struct {
	Username *string
	FullName *string
	IsActive *bool
}
