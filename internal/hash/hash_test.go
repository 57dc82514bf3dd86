package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "secret", h)

	assert.True(t, CheckPassword(h, "secret"))
	assert.False(t, CheckPassword(h, "wrong"))
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret", 999)
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "secret"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
