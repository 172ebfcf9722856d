package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSubject is returned for structurally valid tokens whose payload
// carries no usable user id. Such tokens are rejected outright, never treated
// as half-authenticated.
var ErrMissingSubject = errors.New("token has no subject id")

// Sign issues an HS256 token embedding the user's id.
func Sign(secret []byte, userID int64, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// Verify checks signature and expiry and extracts the subject id.
func Verify(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrMissingSubject
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrMissingSubject
	}
	return int64(id), nil
}
