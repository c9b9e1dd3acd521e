package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesa-desk/mesa/internal/config"
	"github.com/mesa-desk/mesa/internal/model"
)

// Claims carries the acting-user identity inside an access token.
type Claims struct {
	UserID   uint   `json:"uid"`
	UserName string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies JWT access tokens.
type TokenIssuer struct {
	cfg config.JWTConfig
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// AccessToken issues a signed token for the given user and returns it with
// its expiry time.
func (ti *TokenIssuer) AccessToken(user *model.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ti.cfg.AccessTokenTTL)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		UserName: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString([]byte(ti.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, expiresAt, nil
}

// Parse verifies a raw token string and returns its claims.
func (ti *TokenIssuer) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(ti.cfg.Secret), nil
	}, jwt.WithIssuer(ti.cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", model.ErrUnauthorized)
	}
	return claims, nil
}
