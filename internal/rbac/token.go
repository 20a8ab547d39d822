package rbac

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is enforced by ValidateSecret at start-up.
const MinSecretLength = 32

var ErrInvalidToken = errors.New("invalid role token")

type roleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func ValidateSecret(secret string) error {
	if secret == "" {
		return nil
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long (current: %d)", MinSecretLength, len(secret))
	}
	return nil
}

// IssueToken signs a role token that Resolve accepts as an explicit signal.
func IssueToken(secret []byte, role Role, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	now := time.Now()
	claims := roleClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "role:" + string(role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenStr string) (Role, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &roleClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*roleClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	role, ok := ParseRole(claims.Role)
	if !ok {
		return "", ErrInvalidToken
	}
	return role, nil
}
