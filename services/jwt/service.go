package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"go.uber.org/zap"
)

// DefaultAccessExpiry applies when the configured expiry is not positive.
const DefaultAccessExpiry = 15 * time.Minute

var (
	ErrExpiredToken     = fmt.Errorf("%w: token has expired", autherr.ErrInvalidToken)
	ErrMalformedToken   = fmt.Errorf("%w: malformed token", autherr.ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: invalid token signature", autherr.ErrInvalidToken)
	ErrMissingSubject   = fmt.Errorf("%w: token subject is missing or invalid", autherr.ErrInvalidToken)
)

type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies stateless access tokens. It never touches the
// store.
type Service struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	expiry time.Duration
	parser *jwt.Parser
	logger *logging.Service
}

func NewService(cfg config.JWTConfig, logger *logging.Service) *Service {
	method := signingMethod(cfg.Algorithm)

	expiry := cfg.AccessExpiry
	if expiry <= 0 {
		expiry = DefaultAccessExpiry
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer), jwt.WithAudience(cfg.Issuer))
	}

	return &Service{
		secret: []byte(cfg.SecretKey),
		method: method,
		issuer: cfg.Issuer,
		expiry: expiry,
		parser: jwt.NewParser(opts...),
		logger: logger.Named("jwt"),
	}
}

func signingMethod(alg string) jwt.SigningMethod {
	switch alg {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

func (s *Service) AccessExpiry() time.Duration {
	return s.expiry
}

func (s *Service) GetAccessExpirySeconds() int {
	return int(s.expiry.Seconds())
}

// GenerateToken signs an access token with the configured expiry.
func (s *Service) GenerateToken(userID uuid.UUID) (string, error) {
	return s.GenerateTokenWithTTL(userID, s.expiry)
}

// GenerateTokenWithTTL signs an access token that expires ttl from now. A
// ttl of zero or less produces a token that is already expired.
func (s *Service) GenerateTokenWithTTL(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if s.issuer != "" {
		claims.Audience = jwt.ClaimStrings{s.issuer}
	}

	tokenString, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return tokenString, nil
}

// ParseClaims verifies signature, algorithm, issuer, audience and time
// claims.
func (s *Service) ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		s.logger.Debug("access token validation failed", zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %w", autherr.ErrInvalidToken, err)
		}
	}

	if !token.Valid {
		return nil, autherr.ErrInvalidToken
	}

	return claims, nil
}

// ValidateToken returns the user id carried in the subject claim.
func (s *Service) ValidateToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.ParseClaims(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	if claims.Subject == "" {
		return uuid.Nil, ErrMissingSubject
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, ErrMissingSubject
	}

	return userID, nil
}
