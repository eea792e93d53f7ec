package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/password"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("user already exist")
	ErrForbidden     = errors.New("cannot modify a different user")
	ErrInvalidInput  = errors.New("invalid user data")
)

// Service is the credential store plus the account operations built on it.
type Service struct {
	db     *gorm.DB
	hasher *password.Hasher
	logger *logging.Service
}

func NewService(db *gorm.DB, hasher *password.Hasher, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		hasher: hasher,
		logger: logger.Named("users"),
	}
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, s.translate(err)
	}
	return &user, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if err != nil {
		return nil, s.translate(err)
	}
	return &user, nil
}

// Insert stores a fully built user. The password must already be hashed.
func (s *Service) Insert(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	updates := map[string]any{}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if in.FullName != nil {
		if utf8.RuneCountInString(*in.FullName) > MaxFullNameLength {
			return nil, fmt.Errorf("%w: full name must be at most %d characters", ErrInvalidInput, MaxFullNameLength)
		}
		updates["full_name"] = *in.FullName
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, s.translate(err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the user. Refresh tokens, posts, comments and likes go
// with it through ON DELETE CASCADE.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&User{})
	if result.Error != nil {
		return s.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// Register validates and hashes the password, then inserts the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if in.FullName != nil && utf8.RuneCountInString(*in.FullName) > MaxFullNameLength {
		return nil, fmt.Errorf("%w: full name must be at most %d characters", ErrInvalidInput, MaxFullNameLength)
	}
	if err := s.hasher.Validate(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user := &User{
		Username:     username,
		FullName:     in.FullName,
		PasswordHash: hash,
		IsActive:     active,
	}
	if err := s.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			s.logger.Info("registration rejected, username taken", zap.String("username", username))
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return user, nil
}

// List returns a page of users ordered by creation time.
func (s *Service) List(ctx context.Context, offset, limit int) ([]User, error) {
	offset, limit = NormalizePage(offset, limit)

	var users []User
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, s.translate(err)
	}
	return users, nil
}

// UpdateSelf applies a partial update on behalf of actorID, who may only
// modify their own account.
func (s *Service) UpdateSelf(ctx context.Context, actorID, id uuid.UUID, in UpdateInput) (*User, error) {
	if actorID != id {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrForbidden
	}
	return s.Update(ctx, id, in)
}

func (s *Service) DeleteSelf(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID != id {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrForbidden
	}
	return s.Delete(ctx, id)
}

// NormalizePage clamps pagination parameters: a negative offset becomes
// zero and the limit is kept within 1..MaxPageSize.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, MaxUsernameLength)
	}
	return nil
}

func (s *Service) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUsernameTaken
	default:
		s.logger.Error("user store failure", zap.Error(err))
		return autherr.Storage(err)
	}
}
