// Package autherr holds the error kinds shared by the authentication
// components. Callers match them with errors.Is; component errors wrap them.
package autherr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two cases are never distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for an access token that cannot be verified
	// or a refresh token with no matching row.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidOrExpiredToken is returned for a refresh token that is
	// unknown, revoked or past its expiry.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrInactiveUser = errors.New("inactive user")

	ErrUnauthorized = errors.New("unauthorized")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Storage wraps a store failure so it matches ErrStorageUnavailable while
// keeping the driver error in the chain.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
