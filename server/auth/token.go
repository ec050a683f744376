package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "steamates_session"
	// SessionDuration is how long a login session stays valid.
	SessionDuration = 24 * time.Hour

	tokenIssuer = "steamates"
)

// SessionClaims are the JWT claims of a login session.
type SessionClaims struct {
	jwt.RegisteredClaims
	SteamID string `json:"steam_id"`
	UserID  int32  `json:"user_id"`
}

// SignToken issues an HS256 session token for a logged-in user.
func SignToken(secret, steamID string, userID int32) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
		SteamID: steamID,
		UserID:  userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}
	return signed, nil
}

// VerifyToken parses and validates a session token.
func VerifyToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "invalid session token")
	}
	return claims, nil
}
