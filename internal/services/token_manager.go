package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies the HS256 JWTs used for API access.
// Access tokens carry {sub, iat, exp}; refresh tokens additionally carry
// token_type=refresh. The clock is injectable for expiry tests.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) IssueAccessToken(subject uuid.UUID) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub": subject.String(),
		"iat": now.Unix(),
		"exp": now.Add(m.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) IssueRefreshToken(subject uuid.UUID) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":        subject.String(),
		"iat":        now.Unix(),
		"exp":        now.Add(m.refreshTTL).Unix(),
		"token_type": "refresh",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// All cryptographic and expiry failures collapse into ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifySubject verifies a token and parses its subject as a user id.
func (m *TokenManager) VerifySubject(tokenString string) (uuid.UUID, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// VerifyRefresh additionally requires the token_type=refresh claim, so an
// access token can never be replayed against the refresh endpoint.
func (m *TokenManager) VerifyRefresh(tokenString string) (uuid.UUID, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != "refresh" {
		return uuid.Nil, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
