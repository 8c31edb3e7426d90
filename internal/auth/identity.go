package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emilythestrangee/stackit/backend/internal/config"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// IdentityProvider resolves the acting user for a request.
type IdentityProvider interface {
	Resolve(r *http.Request) (string, error)
}

// StaticIdentity treats every request as the same user.
type StaticIdentity struct {
	UserID string
}

func (s StaticIdentity) Resolve(*http.Request) (string, error) {
	return s.UserID, nil
}

// JWTIdentity reads the user_id claim from an HS256 bearer token.
type JWTIdentity struct {
	Secret []byte
}

func (j JWTIdentity) Resolve(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: user_id claim missing", ErrInvalidToken)
	}
	return userID, nil
}

// IssueToken signs a token the JWTIdentity provider accepts.
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// NewProvider picks the provider named by cfg.AuthMode.
func NewProvider(cfg *config.Config) IdentityProvider {
	if cfg.AuthMode == config.AuthModeJWT {
		return JWTIdentity{Secret: []byte(cfg.JWTSecret)}
	}
	return StaticIdentity{UserID: cfg.StaticUserID}
}
