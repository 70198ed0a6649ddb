package session

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session identity next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"idn"`
}

// GenerateToken signs an HS256 token for identity valid for ttl.
func GenerateToken(identity string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Identity: identity,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the identity it carries.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification common.ErrorInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrorInvalidToken
	}
	if !token.Valid || claims.Identity == "" {
		return "", common.ErrorInvalidToken
	}

	return claims.Identity, nil
}
