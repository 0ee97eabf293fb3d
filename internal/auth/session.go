package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

// sessionTTL is how long an issued session stays valid. After expiry the
// user logs in again; there is no refresh flow.
const sessionTTL = 7 * 24 * time.Hour

const issuer = "blogstack"

// SessionService issues and validates the signed session tokens stored in
// the session cookie. Tokens are HS256 JWTs: the subject claim carries the
// user ID, so identifying a request needs no session table — the signature
// alone proves the cookie was issued by this server.
type SessionService struct {
	secret []byte
	secure bool
}

// NewSessionService creates a SessionService with the given signing secret.
// The secret should be at least 32 bytes of random data in production.
func NewSessionService(secret string, secure bool) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret), secure: secure}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user ID.
// Each token gets a unique jti so individual sessions are distinguishable
// in logs even for the same user.
func (s *SessionService) Generate(userID int64) (string, error) {
	return s.generate(userID, sessionTTL)
}

// GenerateWithDuration creates a token with a custom lifetime. Used by tests
// to produce expired tokens.
func (s *SessionService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	return s.generate(userID, d)
}

func (s *SessionService) generate(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the user ID it
// encodes. Fails on tampered, expired, or foreign-issuer tokens, and pins
// the algorithm to HS256.
func (s *SessionService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return 0, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: session expired")
		}
		return 0, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: session token has no valid subject")
	}

	return userID, nil
}

// SetCookie issues a session for userID and writes it as an HttpOnly cookie.
// HttpOnly keeps the token out of reach of page scripts; SameSite=Lax stops
// cross-site POSTs from riding the session.
func (s *SessionService) SetCookie(w http.ResponseWriter, userID int64) error {
	token, err := s.Generate(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie invalidates the session cookie on the client.
func (s *SessionService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserIDFromRequest reads the session cookie and validates it.
// Returns an error for missing, tampered, or expired cookies.
func (s *SessionService) UserIDFromRequest(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, err
	}
	return s.Validate(cookie.Value)
}
