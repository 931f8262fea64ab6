package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	jwtSecretKey = []byte(os.Getenv("JWT_SECRET"))
	sessionTTL   = 7 * 24 * time.Hour
	resetTTL     = 15 * time.Minute
)

// Configure overrides the signing secret and token lifetimes from config.
func Configure(secret string, session, reset time.Duration) {
	if secret != "" {
		jwtSecretKey = []byte(secret)
	}
	if session > 0 {
		sessionTTL = session
	}
	if reset > 0 {
		resetTTL = reset
	}
}

// Claims carries the subject user id plus the reset scope marker. A token
// with Reset=true is only a capability for the password-reset flow and is
// never accepted as a general session token.
type Claims struct {
	Reset bool `json:"reset,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject out of the claims.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// GenerateSessionToken issues a signed bearer token for a user session.
func GenerateSessionToken(userID uint) (string, error) {
	return generate(userID, sessionTTL, false)
}

// GenerateResetToken issues a short-lived token scoped to password reset.
func GenerateResetToken(userID uint) (string, error) {
	return generate(userID, resetTTL, true)
}

func generate(userID uint, ttl time.Duration, reset bool) (string, error) {
	claims := Claims{
		Reset: reset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "cryptidwatch",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// VerifySessionToken validates a bearer token and rejects reset-scoped ones.
func VerifySessionToken(tokenString string) (*Claims, error) {
	claims, err := verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Reset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyResetToken validates a token and requires the reset scope.
func VerifyResetToken(tokenString string) (*Claims, error) {
	claims, err := verify(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.Reset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
