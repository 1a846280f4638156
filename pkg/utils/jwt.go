package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/models"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	accessSecret  = []byte("change-me-access")
	refreshSecret = []byte("change-me-refresh")
	accessTTL     = 15 * time.Minute
	refreshTTL    = 7 * 24 * time.Hour
)

var ErrWrongTokenType = errors.New("wrong token type")

type Claims struct {
	UserID  uuid.UUID `json:"userID"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
	Type    TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

func ConfigureJWT(access, refresh string, accessLifetime, refreshLifetime time.Duration) {
	if access != "" {
		accessSecret = []byte(access)
	}
	if refresh != "" {
		refreshSecret = []byte(refresh)
	}
	if accessLifetime > 0 {
		accessTTL = accessLifetime
	}
	if refreshLifetime > 0 {
		refreshTTL = refreshLifetime
	}
}

func AccessTTL() time.Duration  { return accessTTL }
func RefreshTTL() time.Duration { return refreshTTL }

func GenerateTokenPair(user *models.User) (*TokenPair, error) {
	access, accessExp, err := GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := sign(user, RefreshToken, refreshTTL, refreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func GenerateAccessToken(user *models.User) (string, time.Time, error) {
	return sign(user, AccessToken, accessTTL, accessSecret)
}

func sign(user *models.User, typ TokenType, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ValidateAccessToken(tokenString string) (*Claims, error) {
	return validate(tokenString, AccessToken, accessSecret)
}

func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validate(tokenString, RefreshToken, refreshSecret)
}

func validate(tokenString string, typ TokenType, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
