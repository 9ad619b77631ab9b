package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	assert.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("motdepasse123", hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais", hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	h1, err := HashPassword("motdepasse123")
	assert.NoError(t, err)
	h2, err := HashPassword("motdepasse123")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

// Les comptes migrés depuis l'ancien backend Node restent en bcrypt
func TestVerifyPassword_BcryptFallback(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("ancien-mdp"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	assert.True(t, IsBcryptHash(string(legacy)))

	ok, err := VerifyPassword("ancien-mdp", string(legacy))
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais", string(legacy))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	ok, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode()
	assert.Len(t, code, 12)
	assert.Equal(t, "MED-", code[:4])

	// Deux codes successifs ne doivent pas se répéter
	assert.NotEqual(t, code, GenerateReferralCode())
}
