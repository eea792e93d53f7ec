// Package session turns a bearer access token into the calling user.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

type Resolver struct {
	tokens TokenValidator
	users  UserLookup
	logger *logging.Service
}

func NewResolver(tokens TokenValidator, users UserLookup, logger *logging.Service) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		logger: logger.Named("session"),
	}
}

// Resolve verifies the access token and loads its subject. A token failure
// matches both autherr.ErrUnauthorized and autherr.ErrInvalidToken.
func (r *Resolver) Resolve(ctx context.Context, accessToken string) (*users.User, error) {
	userID, err := r.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", autherr.ErrUnauthorized, err)
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			r.logger.Debug("access token subject no longer exists", zap.String("user_id", userID.String()))
			return nil, autherr.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// ResolveActive is Resolve plus autherr.ErrInactiveUser for disabled
// accounts.
func (r *Resolver) ResolveActive(ctx context.Context, accessToken string) (*users.User, error) {
	user, err := r.Resolve(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, autherr.ErrInactiveUser
	}
	return user, nil
}
