// Package auth issues and validates device JWTs.
package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims carries the identity of an authenticated device.
type JWTClaims struct {
	DeviceID string `json:"device_id"`
	HabitID  string `json:"habit_id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

const defaultTokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "momentum-dev-secret"
	}
	return []byte(secret)
}

// GenerateDeviceToken issues a signed token for an authenticated device.
// The habit ID is embedded so the websocket layer can scope sessions
// without a second lookup.
func GenerateDeviceToken(deviceID, habitID string) (string, error) {
	if deviceID == "" {
		return "", errors.New("device ID cannot be empty")
	}

	claims := &JWTClaims{
		DeviceID: deviceID,
		HabitID:  habitID,
		Role:     "device",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(defaultTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateToken parses and validates a token, returning its claims.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
