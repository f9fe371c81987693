package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, h.Check(hash, "s3cret-pass"))
	assert.False(t, h.Check(hash, "wrong"))
}

func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, BcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, BcryptCost, NewPasswordHasher(99).cost)
}

func TestGeneratePassword(t *testing.T) {
	short, err := GeneratePassword(4)
	require.NoError(t, err)
	assert.Len(t, short, MinPasswordLength)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p, err := GeneratePassword(12)
		require.NoError(t, err)
		assert.Len(t, p, 12)
		for _, r := range p {
			assert.Contains(t, passwordAlphabet, string(r))
		}
		seen[p] = true
	}
	assert.Len(t, seen, 50)
}
