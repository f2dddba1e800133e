package utils

import (
	"errors" // Error construction
	"time"   // Expiry

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenIssuer is the "iss" every accepted token must carry
const TokenIssuer = "blog_system"

// ErrInvalidToken covers every reason a bearer token is refused
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims identify the user a bearer token speaks for
type TokenClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for userID that expires after ttl.
// The API never hands tokens out itself; issuers and tests use this.
func SignToken(userID uint, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken checks signature, algorithm, issuer and expiry and returns the user id
func VerifyToken(raw, secret string) (uint, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidToken // Signed but names nobody
	}
	return claims.UserID, nil
}
