package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionKind discriminates the two disjoint storage scopes.
type SessionKind string

const (
	// SessionGuest is an unauthenticated session; data lives only in
	// guest-scoped local storage and is never merged into any account.
	SessionGuest SessionKind = "guest"
	// SessionAuthenticated is a signed-in session backed by the remote store.
	SessionAuthenticated SessionKind = "authenticated"
)

// Session errors.
var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token is expired")
)

// Session identifies the scope that owns every read and write.
type Session struct {
	Kind   SessionKind
	UserID string
	Email  string
}

// GuestSession returns the unauthenticated session.
func GuestSession() Session {
	return Session{Kind: SessionGuest}
}

// AuthenticatedSession returns a session for the given user.
func AuthenticatedSession(userID string) Session {
	return Session{Kind: SessionAuthenticated, UserID: userID}
}

// Authenticated reports whether the session is signed in.
func (s Session) Authenticated() bool {
	return s.Kind == SessionAuthenticated && s.UserID != ""
}

// sessionClaims mirrors the claims carried by the backend access token.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// SessionFromToken derives an authenticated session from a backend access
// token. The signature is verified server-side; here the token is only
// decoded to recover the user id and to reject already-expired tokens.
func SessionFromToken(tokenString string, now time.Time) (Session, error) {
	claims := &sessionClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.ExpiresAt != 0 && now.Unix() >= claims.ExpiresAt {
		return Session{}, ErrExpiredToken
	}
	sess := AuthenticatedSession(claims.Subject)
	sess.Email = claims.Email
	return sess, nil
}
