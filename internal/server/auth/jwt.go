// Package auth mints and verifies the signed session tokens handed out at
// register and login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the account id. ID (jti) is random per token so two tokens
// minted for the same account within the same second still differ.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"aid"`
}

// GenerateToken returns an HS256 token for accountID valid for validity.
func GenerateToken(accountID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		AccountID: accountID,
	})

	return token.SignedString(secretKey)
}

// GetAccountIDFromToken verifies tokenString and returns its account id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields common.ErrInvalidToken.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
