package password

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest input bcrypt accepts.
const MaxBytes = 72

var (
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrPasswordTooLong       = errors.New("password is too long")
	ErrPasswordHashingFailed = errors.New("failed to hash password")
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost      int
	minLength int
	maxLength int
	logger    *logging.Service
}

func NewHasher(cfg config.AuthConfig, logger *logging.Service) *Hasher {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{
		cost:      cost,
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
		logger:    logger.Named("password"),
	}
}

func (h *Hasher) Cost() int {
	return h.cost
}

// Validate enforces the registration length policy.
func (h *Hasher) Validate(plain string) error {
	n := utf8.RuneCountInString(plain)
	if h.minLength > 0 && n < h.minLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, h.minLength)
	}
	if h.maxLength > 0 && n > h.maxLength {
		return fmt.Errorf("%w: must be at most %d characters", ErrPasswordTooLong, h.maxLength)
	}
	if len(plain) > MaxBytes {
		return fmt.Errorf("%w: must be at most %d bytes", ErrPasswordTooLong, MaxBytes)
	}
	return nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrPasswordHashingFailed, err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A malformed hash, e.g. a
// corrupted row, reports false rather than an error.
func (h *Hasher) Verify(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.logger.Warn("stored password hash is unreadable", zap.Error(err))
	}
	return false
}
