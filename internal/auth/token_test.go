package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesa-desk/mesa/internal/config"
	"github.com/mesa-desk/mesa/internal/model"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret-key-for-signing",
		Issuer:          "mesa-api",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func testUser() *model.User {
	u := &model.User{
		Name:  "Admin",
		Email: "admin@example.com",
		Login: "admin",
	}
	u.ID = 42
	return u
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testJWTConfig())

	token, expiresAt, err := issuer.AccessToken(testUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Admin", claims.UserName)
	assert.Equal(t, "mesa-api", claims.Issuer)
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testJWTConfig())
	token, _, err := issuer.AccessToken(testUser())
	assert.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	other := NewTokenIssuer(otherCfg)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestTokenIssuer_RejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	foreign := NewTokenIssuer(cfg)
	token, _, err := foreign.AccessToken(testUser())
	assert.NoError(t, err)

	issuer := NewTokenIssuer(testJWTConfig())
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute
	issuer := NewTokenIssuer(cfg)

	token, _, err := issuer.AccessToken(testUser())
	assert.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(testJWTConfig())

	_, err := issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
