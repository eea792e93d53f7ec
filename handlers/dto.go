package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/posts"
	"github.com/tech-arch1tect/minisocial/services/refreshtoken"
	"github.com/tech-arch1tect/minisocial/services/users"
)

type HealthResponse struct {
	Message string `json:"message"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// LoginRequest is accepted as JSON or as an OAuth2-style form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

type SessionResponse struct {
	ID         uuid.UUID `json:"id"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsed   time.Time `json:"last_used"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

type PageQuery struct {
	Offset int `json:"offset" query:"offset" validate:"gte=0"`
	Limit  int `json:"limit" query:"limit" validate:"omitempty,gte=1,lte=100"`
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,max=20"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=40"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=20"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=40"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UserPublic struct {
	ID        uuid.UUID          `json:"id"`
	Username  string             `json:"username"`
	FullName  *string            `json:"full_name"`
	IsActive  bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
	Posts     []posts.PostDetail `json:"posts,omitempty"`
}

type UsersResponse struct {
	Users []UserPublic `json:"users"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=40"`
	Content string `json:"content" validate:"required,max=255"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=40"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=255"`
}

type PostsResponse struct {
	Posts []posts.PostDetail `json:"posts"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=255"`
}

type LikeResponse struct {
	UserID  uuid.UUID        `json:"user_id"`
	PostID  uuid.UUID        `json:"post_id"`
	LikedAt time.Time        `json:"liked_at"`
	Post    posts.PostDetail `json:"post"`
}

func newUserPublic(u *users.User) UserPublic {
	return UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func newSessionResponse(t refreshtoken.RefreshToken) SessionResponse {
	return SessionResponse{
		ID:         t.ID,
		DeviceName: t.DeviceName,
		CreatedAt:  t.CreatedAt,
		LastUsed:   t.LastUsed,
		ExpiresAt:  t.ExpiresAt,
	}
}
