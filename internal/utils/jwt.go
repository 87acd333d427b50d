package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 24 * time.Hour

// SessionClaims are the claims carried by a session token: the user's
// id, email and role, plus the registered expiry/issued-at claims.
// Role is what the authorization gates check; handlers read UserID to
// scope writes to the caller.
type SessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionToken represents a signed JWT along with its expiry.  The
// token string is returned to the client in the login response and is
// expected back in the Authorization header as a Bearer token.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The token
// is valid for SessionTTL (24 hours) from issuance.
func NewSessionToken(secret, userID, email, role string) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(SessionTTL)
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a raw token string and returns its
// claims.  Tokens signed with anything but HMAC are rejected, as are
// expired or otherwise invalid tokens.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
