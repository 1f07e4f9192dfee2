package session

import (
	"errors"
	"time"

	"customer-dashboard-svc/src/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of the session cookie. It identifies the session
// only; expiry is decided by the stored session.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (t *TokenSigner) Sign(sessionID string, issuedAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature and returns the session id carried by the token.
func (t *TokenSigner) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", models.ErrSessionInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.SessionID == "" {
		return "", models.ErrSessionInvalid
	}

	return claims.SessionID, nil
}
