package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashToken(t *testing.T) {
	hash, err := HashToken("admin-token", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, CheckTokenHash("admin-token", hash))
	assert.False(t, CheckTokenHash("admin-token2", hash))
	assert.False(t, CheckTokenHash("admin-token", "not-a-hash"))

	other, err := HashToken("admin-token", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salted")
}
