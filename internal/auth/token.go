package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"loanverse/internal/domain/identity"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Session is the authenticated caller extracted from a verified token.
type Session struct {
	Name string
	Role identity.Role
}

// TokenManager issues and verifies signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Generate issues a signed HS256 token carrying the user's name and role.
func (t *TokenManager) Generate(user identity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  t.issuer,
		"sub":  user.Name,
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string and returns the session it
// carries.
func (t *TokenManager) Verify(raw string) (Session, error) {
	token, err := jwt.Parse(raw, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}
	name, _ := claims["sub"].(string)
	roleRaw, _ := claims["role"].(string)
	role, err := identity.ParseRole(roleRaw)
	if err != nil || name == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{Name: name, Role: role}, nil
}
