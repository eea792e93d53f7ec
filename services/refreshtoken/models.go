package refreshtoken

import (
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/users"
	"gorm.io/gorm"
)

// RefreshToken is one device session. At most one row exists per
// (user, device); the bearer string is stored only as its SHA-256 hex.
type RefreshToken struct {
	ID         uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID   `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_refresh_tokens_user_device,priority:1"`
	User       *users.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	TokenHash  string      `json:"-" gorm:"uniqueIndex;size:64;not null"`
	DeviceName string      `json:"device_name" gorm:"size:255;not null;uniqueIndex:idx_refresh_tokens_user_device,priority:2"`
	Revoked    bool        `json:"revoked" gorm:"not null"`
	ExpiresAt  time.Time   `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time   `json:"created_at"`
	LastUsed   time.Time   `json:"last_used"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Active reports whether the row can still be exchanged at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.Revoked && t.ExpiresAt.After(now)
}

// IssuedToken is the result of an issue or rotation. Token is the only copy
// of the bearer string.
type IssuedToken struct {
	Token      string
	ID         uuid.UUID
	UserID     uuid.UUID
	DeviceName string
	ExpiresAt  time.Time
	Rotated    bool
}
