package services

import (
	"fmt"
	"strings"
	"time"

	"munaybol/constants"
	"munaybol/errors"

	"github.com/dgrijalva/jwt-go"
)

type UserInfo struct {
	UserId uint   `json:"userid"`
	Role   string `json:"role"`
}

type Claims struct {
	UserInfo  UserInfo `json:"userinfo"`
	TokenType string   `json:"token_type"`
	jwt.StandardClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService signs and verifies HS256 tokens with separate access/refresh secrets
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     constants.AccessTokenTTL,
		refreshTTL:    constants.RefreshTokenTTL,
		now:           time.Now,
	}
}

// GenerateToken signs a token for userInfo
func (t *TokenService) GenerateToken(userInfo UserInfo, isAccessToken bool) (string, error) {
	ttl, secret, kind := t.accessTTL, t.accessSecret, tokenTypeAccess
	if !isAccessToken {
		ttl, secret, kind = t.refreshTTL, t.refreshSecret, tokenTypeRefresh
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("missing %s token secret", kind)
	}

	now := t.now()
	claims := &Claims{
		UserInfo:  userInfo,
		TokenType: kind,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateTokenPair returns access and refresh tokens
func (t *TokenService) GenerateTokenPair(userInfo UserInfo) (string, string, error) {
	access, err := t.GenerateToken(userInfo, true)
	if err != nil {
		return "", "", err
	}
	refresh, err := t.GenerateToken(userInfo, false)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseToken verifies signature, expiry and token type
func (t *TokenService) ParseToken(tokenString string, isAccessToken bool) (*Claims, error) {
	secret, kind := t.accessSecret, tokenTypeAccess
	if !isAccessToken {
		secret, kind = t.refreshSecret, tokenTypeRefresh
	}

	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, errors.NewAppError(errors.ErrCodeMissingToken, "Token no proporcionado.", nil)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token inválido o expirado.", err)
	}
	if claims.TokenType != kind {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Tipo de token inválido.", nil)
	}
	if claims.UserInfo.UserId == 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token sin usuario.", nil)
	}
	return claims, nil
}

// GetUserIDFromToken returns user id and role of a valid access token
func (t *TokenService) GetUserIDFromToken(tokenString string) (uint, string, error) {
	claims, err := t.ParseToken(tokenString, true)
	if err != nil {
		return 0, "", err
	}
	return claims.UserInfo.UserId, claims.UserInfo.Role, nil
}
