package autherr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorage(t *testing.T) {
	driverErr := errors.New("connection refused")

	err := Storage(driverErr)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, Storage(nil))
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidCredentials,
		ErrInvalidToken,
		ErrInvalidOrExpiredToken,
		ErrInactiveUser,
		ErrUnauthorized,
		ErrStorageUnavailable,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
