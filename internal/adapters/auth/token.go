package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campusevents/internal/domain"
)

const tokenIssuer = "campusevents"

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// JWTManager signs and verifies HS256 access tokens. It implements both
// domain.TokenIssuer and domain.TokenVerifier.
type JWTManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager returns a JWTManager whose tokens expire after expiry.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (m *JWTManager) Issue(userID, email string, roles []string) (string, error) {
	now := m.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
		Email: email,
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses token and returns the caller it identifies. Any failure,
// expiry included, is reported as domain.ErrUnauthorized.
func (m *JWTManager) Verify(token string) (domain.Actor, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Actor{}, errors.Join(domain.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	return domain.Actor{
		ID:    claims.Subject,
		Email: strings.ToLower(claims.Email),
		Role:  domain.ResolveRole(claims.Roles),
	}, nil
}
