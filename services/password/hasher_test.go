package password

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/config"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *Hasher {
	return NewHasher(config.AuthConfig{MinLength: 8, MaxLength: 40, BcryptCost: bcrypt.MinCost}, nil)
}

func randomPrintable(r *rand.Rand, n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(byte(0x20 + r.IntN(0x7f-0x20)))
	}
	return b.String()
}

func TestNewHasher_CostClamp(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(config.AuthConfig{BcryptCost: 1}, nil).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(config.AuthConfig{BcryptCost: 99}, nil).Cost())
	assert.Equal(t, 12, NewHasher(config.AuthConfig{BcryptCost: 12}, nil).Cost())
}

func TestHasher_RoundTrip(t *testing.T) {
	h := testHasher()
	r := rand.New(rand.NewPCG(1, 2))

	var lengths []int
	for i := range 12 {
		plain := randomPrintable(r, 8+i*32/11)
		lengths = append(lengths, len(plain))
		require.NoError(t, h.Validate(plain))

		hash, err := h.Hash(plain)
		require.NoError(t, err)

		assert.True(t, h.Verify(plain, hash), "round trip failed for %q", plain)
		assert.False(t, h.Verify(plain+"x", hash))
		assert.False(t, h.Verify(plain[1:], hash))
	}

	assert.Equal(t, 8, lengths[0])
	assert.Equal(t, 40, lengths[len(lengths)-1])
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("correcthorse123")
	require.NoError(t, err)
	second, err := h.Hash("correcthorse123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "$2a$"))
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := testHasher()

	assert.NotPanics(t, func() {
		assert.False(t, h.Verify("correcthorse123", ""))
		assert.False(t, h.Verify("correcthorse123", "not-a-bcrypt-hash"))
		assert.False(t, h.Verify("correcthorse123", "$2a$10$truncated"))
	})
}

func TestHasher_Validate(t *testing.T) {
	h := testHasher()

	assert.ErrorIs(t, h.Validate("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, h.Validate(strings.Repeat("a", 41)), ErrPasswordTooLong)
	assert.NoError(t, h.Validate(strings.Repeat("a", 8)))
	assert.NoError(t, h.Validate(strings.Repeat("a", 40)))
	assert.NoError(t, h.Validate(strings.Repeat("é", 36)))
	assert.ErrorIs(t, h.Validate(strings.Repeat("é", 37)), ErrPasswordTooLong)
	assert.ErrorIs(t, h.Validate(strings.Repeat("é", 40)), ErrPasswordTooLong)
}
