package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/users"
	"gorm.io/gorm"
)

const (
	MaxTitleLength   = 40
	MaxContentLength = 255
)

type Post struct {
	ID        uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string      `json:"title" gorm:"size:40;not null;index"`
	Content   string      `json:"content" gorm:"size:255;not null"`
	OwnerID   uuid.UUID   `json:"owner_id" gorm:"type:char(36);not null;index"`
	Owner     *users.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at" gorm:"autoUpdateTime:false"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID         uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Content    string      `json:"content" gorm:"size:255;not null"`
	OwnerID    uuid.UUID   `json:"owner_id" gorm:"type:char(36);not null;index"`
	Owner      *users.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID     uuid.UUID   `json:"post_id" gorm:"type:char(36);not null;index"`
	Post       *Post       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `json:"created_at"`
	LastEdited *time.Time  `json:"last_edited"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Like struct {
	UserID  uuid.UUID   `json:"user_id" gorm:"type:char(36);primaryKey"`
	User    *users.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PostID  uuid.UUID   `json:"post_id" gorm:"type:char(36);primaryKey"`
	Post    *Post       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	LikedAt time.Time   `json:"liked_at" gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "likes"
}

// PostDetail is a post with its engagement counts.
type PostDetail struct {
	Post
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
}

type PostInput struct {
	Title   string
	Content string
}

// PostUpdate holds the fields of a partial update; nil fields are left
// unchanged.
type PostUpdate struct {
	Title   *string
	Content *string
}
