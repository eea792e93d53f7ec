package refreshtoken

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultDeviceName   = "default"
	MaxDeviceNameLength = 255
	DefaultExpiry       = 7 * 24 * time.Hour
)

var ErrTokenGenerationFailed = errors.New("failed to generate secure token")

type Service struct {
	db          *gorm.DB
	tokenLength int
	expiry      time.Duration
	logger      *logging.Service
}

func NewService(db *gorm.DB, cfg config.RefreshTokenConfig, logger *logging.Service) *Service {
	tokenLength := cfg.TokenLength
	if tokenLength < config.MinRefreshTokenBytes {
		tokenLength = config.MinRefreshTokenBytes
	}

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	logger = logger.Named("refreshtoken")
	logger.Info("initializing refresh token service",
		zap.Duration("token_expiry", expiry),
		zap.Int("token_length", tokenLength))

	return &Service{
		db:          db,
		tokenLength: tokenLength,
		expiry:      expiry,
		logger:      logger,
	}
}

func (s *Service) Expiry() time.Duration {
	return s.expiry
}

// NormalizeDeviceName trims the label, substitutes DefaultDeviceName for an
// empty one and truncates to MaxDeviceNameLength bytes on a rune boundary.
func NormalizeDeviceName(deviceName string) string {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return DefaultDeviceName
	}
	if len(deviceName) <= MaxDeviceNameLength {
		return deviceName
	}

	cut := MaxDeviceNameLength
	for cut > 0 && !utf8.RuneStart(deviceName[cut]) {
		cut--
	}
	return deviceName[:cut]
}

// IssueOrRotate gives the (user, device) pair a fresh token. An existing row
// for the pair is overwritten in place, revoked or not, so the previous
// bearer string stops verifying.
func (s *Service) IssueOrRotate(ctx context.Context, userID uuid.UUID, deviceName string) (*IssuedToken, error) {
	deviceName = NormalizeDeviceName(deviceName)

	token, err := s.generateSecureToken()
	if err != nil {
		s.logger.Error("failed to generate secure refresh token", zap.Error(err))
		return nil, ErrTokenGenerationFailed
	}
	tokenHash := hashToken(token)
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	var (
		stored  RefreshToken
		rotated bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing RefreshToken
		err := tx.Where("user_id = ? AND device_name = ?", userID, deviceName).Take(&existing).Error
		switch {
		case err == nil:
			rotated = true
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		row := RefreshToken{
			UserID:     userID,
			TokenHash:  tokenHash,
			DeviceName: deviceName,
			Revoked:    false,
			ExpiresAt:  expiresAt,
			LastUsed:   now,
		}
		err = tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "expires_at", "last_used", "revoked"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ? AND device_name = ?", userID, deviceName).Take(&stored).Error
	})
	if err != nil {
		return nil, s.storageError("failed to store refresh token", err)
	}

	s.logger.Info("refresh token issued",
		zap.String("user_id", userID.String()),
		zap.String("device_name", deviceName),
		zap.Bool("rotated", rotated),
		zap.String("token_hash", hashPrefix(tokenHash)),
		zap.Time("expires_at", expiresAt))

	return &IssuedToken{
		Token:      token,
		ID:         stored.ID,
		UserID:     stored.UserID,
		DeviceName: stored.DeviceName,
		ExpiresAt:  stored.ExpiresAt,
		Rotated:    rotated,
	}, nil
}

// Verify returns the row behind an active token. Unknown, revoked and
// expired tokens all fail with autherr.ErrInvalidOrExpiredToken.
func (s *Service) Verify(ctx context.Context, token string) (*RefreshToken, error) {
	tokenHash := hashToken(token)

	var row RefreshToken
	err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("refresh token not found", zap.String("token_hash", hashPrefix(tokenHash)))
			return nil, autherr.ErrInvalidOrExpiredToken
		}
		return nil, s.storageError("failed to look up refresh token", err)
	}

	if !row.Active(time.Now()) {
		s.logger.Debug("refresh token no longer active",
			zap.String("token_id", row.ID.String()),
			zap.Bool("revoked", row.Revoked),
			zap.Time("expires_at", row.ExpiresAt))
		return nil, autherr.ErrInvalidOrExpiredToken
	}

	return &row, nil
}

// Rotate exchanges an active token for a new one on the same row. The swap
// is conditional on the old hash, so of two concurrent exchanges of one
// token only the first succeeds.
func (s *Service) Rotate(ctx context.Context, token string) (*IssuedToken, error) {
	oldHash := hashToken(token)

	newToken, err := s.generateSecureToken()
	if err != nil {
		s.logger.Error("failed to generate secure refresh token", zap.Error(err))
		return nil, ErrTokenGenerationFailed
	}
	newHash := hashToken(newToken)
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	var row RefreshToken
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_hash = ?", oldHash).Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return autherr.ErrInvalidOrExpiredToken
			}
			return err
		}
		if !row.Active(now) {
			return autherr.ErrInvalidOrExpiredToken
		}

		result := tx.Model(&RefreshToken{}).
			Where("id = ? AND token_hash = ? AND revoked = ?", row.ID, oldHash, false).
			Updates(map[string]any{
				"token_hash": newHash,
				"expires_at": expiresAt,
				"last_used":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return autherr.ErrInvalidOrExpiredToken
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, autherr.ErrInvalidOrExpiredToken) {
			return nil, err
		}
		return nil, s.storageError("failed to rotate refresh token", err)
	}

	s.logger.Info("refresh token rotated",
		zap.String("user_id", row.UserID.String()),
		zap.String("device_name", row.DeviceName),
		zap.String("old_token_hash", hashPrefix(oldHash)),
		zap.String("token_hash", hashPrefix(newHash)))

	return &IssuedToken{
		Token:      newToken,
		ID:         row.ID,
		UserID:     row.UserID,
		DeviceName: row.DeviceName,
		ExpiresAt:  expiresAt,
		Rotated:    true,
	}, nil
}

// Revoke marks the token's row revoked. Revoking an already revoked row
// succeeds; an unknown token fails with autherr.ErrInvalidToken.
func (s *Service) Revoke(ctx context.Context, token string) error {
	tokenHash := hashToken(token)

	var row RefreshToken
	err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("revoke of unknown refresh token", zap.String("token_hash", hashPrefix(tokenHash)))
			return autherr.ErrInvalidToken
		}
		return s.storageError("failed to look up refresh token", err)
	}
	if row.Revoked {
		return nil
	}

	err = s.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ?", row.ID).
		Update("revoked", true).Error
	if err != nil {
		return s.storageError("failed to revoke refresh token", err)
	}

	s.logger.Info("refresh token revoked",
		zap.String("user_id", row.UserID.String()),
		zap.String("device_name", row.DeviceName),
		zap.String("token_hash", hashPrefix(tokenHash)))
	return nil
}

// RevokeAllForUser revokes every active row of the user and returns how
// many changed.
func (s *Service) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	if result.Error != nil {
		return 0, s.storageError("failed to revoke user refresh tokens", result.Error)
	}

	s.logger.Info("all user refresh tokens revoked",
		zap.String("user_id", userID.String()),
		zap.Int64("count", result.RowsAffected))

	return result.RowsAffected, nil
}

// ListForUser returns the user's active device sessions, most recently
// used first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]RefreshToken, error) {
	var rows []RefreshToken
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ?", userID, false).
		Order("last_used DESC").
		Find(&rows).Error
	if err != nil {
		return nil, s.storageError("failed to list refresh tokens", err)
	}

	now := time.Now()
	active := rows[:0]
	for _, row := range rows {
		if row.Active(now) {
			active = append(active, row)
		}
	}
	return active, nil
}

func (s *Service) storageError(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, autherr.Storage(err))
}

func (s *Service) generateSecureToken() (string, error) {
	tokenBytes := make([]byte, s.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func hashPrefix(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
