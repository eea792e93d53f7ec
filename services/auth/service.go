package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/metrics"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/services/refreshtoken"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/zap"
)

const TokenTypeBearer = "bearer"

// SessionPair is what a successful login or refresh hands to the client.
type SessionPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int       `json:"expires_in"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	DeviceName       string    `json:"device_name"`
}

type Service struct {
	users     *users.Service
	hasher    *password.Hasher
	tokens    *jwt.Service
	refresh   *refreshtoken.Service
	metrics   *metrics.Service
	logger    *logging.Service
	dummyHash string
}

func NewService(
	userService *users.Service,
	hasher *password.Hasher,
	tokens *jwt.Service,
	refresh *refreshtoken.Service,
	metricsService *metrics.Service,
	logger *logging.Service,
) (*Service, error) {
	// Compared against when the username is unknown.
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy password hash: %w", err)
	}

	return &Service{
		users:     userService,
		hasher:    hasher,
		tokens:    tokens,
		refresh:   refresh,
		metrics:   metricsService,
		logger:    logger.Named("auth"),
		dummyHash: dummyHash,
	}, nil
}

// Authenticate checks a username and password. An unknown username and a
// wrong password both yield autherr.ErrInvalidCredentials after the same
// amount of bcrypt work.
func (s *Service) Authenticate(ctx context.Context, username, plain string) (*users.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			return nil, err
		}
		s.hasher.Verify(plain, s.dummyHash)
		s.logger.Info("authentication failed", zap.String("username", username))
		return nil, autherr.ErrInvalidCredentials
	}

	if !s.hasher.Verify(plain, user.PasswordHash) {
		s.logger.Info("authentication failed", zap.String("username", username))
		return nil, autherr.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Info("authentication of inactive user refused", zap.String("user_id", user.ID.String()))
		return nil, autherr.ErrInactiveUser
	}

	return user, nil
}

// IssueSessionPair mints an access token and issues or rotates the refresh
// token of the (user, device) pair.
func (s *Service) IssueSessionPair(ctx context.Context, userID uuid.UUID, deviceName string) (*SessionPair, error) {
	issued, err := s.refresh.IssueOrRotate(ctx, userID, deviceName)
	if err != nil {
		return nil, err
	}

	return s.pair(userID, issued)
}

func (s *Service) Login(ctx context.Context, username, plain, deviceName string) (pair *SessionPair, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventLogin, err) }()

	user, err := s.Authenticate(ctx, username, plain)
	if err != nil {
		return nil, err
	}

	pair, err = s.IssueSessionPair(ctx, user.ID, deviceName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("device_name", pair.DeviceName))

	return pair, nil
}

// RefreshSession exchanges a refresh token for a new pair. The rotation
// happens on the row the token belongs to, whatever deviceName says, so the
// presented token is always consumed.
func (s *Service) RefreshSession(ctx context.Context, refreshToken, deviceName string) (pair *SessionPair, err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventRefresh, err) }()

	row, err := s.refresh.Verify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, autherr.ErrInvalidOrExpiredToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, autherr.ErrInactiveUser
	}

	if deviceName != "" && refreshtoken.NormalizeDeviceName(deviceName) != row.DeviceName {
		s.logger.Info("refresh presented from a different device label",
			zap.String("user_id", user.ID.String()),
			zap.String("session_device", row.DeviceName),
			zap.String("presented_device", deviceName))
	}

	issued, err := s.refresh.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return s.pair(user.ID, issued)
}

func (s *Service) EndSession(ctx context.Context, refreshToken string) (err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventLogout, err) }()

	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *Service) EndAllSessions(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() { s.metrics.AuthEvent(metrics.EventLogoutAll, err) }()

	_, err = s.refresh.RevokeAllForUser(ctx, userID)
	return err
}

func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]refreshtoken.RefreshToken, error) {
	return s.refresh.ListForUser(ctx, userID)
}

func (s *Service) pair(userID uuid.UUID, issued *refreshtoken.IssuedToken) (*SessionPair, error) {
	accessToken, err := s.tokens.GenerateToken(userID)
	if err != nil {
		return nil, err
	}

	return &SessionPair{
		AccessToken:      accessToken,
		RefreshToken:     issued.Token,
		TokenType:        TokenTypeBearer,
		ExpiresIn:        s.tokens.GetAccessExpirySeconds(),
		RefreshExpiresAt: issued.ExpiresAt,
		DeviceName:       issued.DeviceName,
	}, nil
}
