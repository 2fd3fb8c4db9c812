package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCheck(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.NoError(t, h.Check("pw1", hash))
	assert.ErrorIs(t, h.Check("wrong", hash), ErrInvalidCredentials)
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_RejectsLongPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestPasswordHasher_CheckMissing(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	assert.ErrorIs(t, h.CheckMissing("anything"), ErrInvalidCredentials)
}

func TestPasswordHasher_CheckMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	err := h.Check("pw", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}

func TestPasswordHasher_CheckMissingRetriesDummy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	calls := 0
	h.generate = func(password []byte, cost int) ([]byte, error) {
		calls++
		return nil, errors.New("entropy unavailable")
	}
	assert.ErrorIs(t, h.CheckMissing("anything"), ErrInvalidCredentials)
	assert.Equal(t, 2, calls, "dummy attempt plus the fallback hash")
	assert.Nil(t, h.dummy)

	h.generate = bcrypt.GenerateFromPassword
	assert.ErrorIs(t, h.CheckMissing("anything"), ErrInvalidCredentials)
	assert.NotNil(t, h.dummy, "dummy is generated once generation works again")
}
