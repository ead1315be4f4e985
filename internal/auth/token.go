package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionDuration is the fixed lifetime of a session token and its cookie.
// There is no refresh flow: after 24h the client must log in again.
const sessionDuration = 24 * time.Hour

// CookieName is the cookie that carries the session token.
const CookieName = "token"

const issuer = "jobspot"

// Sentinel errors returned by Verify. Callers distinguish an expired session
// (the client should re-authenticate) from a tampered or garbage token.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// TokenService issues and verifies stateless session tokens.
//
// Tokens are HS256 JWTs carrying the user ID in the subject claim plus
// issued-at and expiry timestamps. The server keeps no token table — the
// signature alone proves a token was issued here, and expiry is embedded,
// so verification is a pure CPU check with no lookup.
//
// The signing secret is injected at construction. Nothing in this package
// reads the environment.
type TokenService struct {
	secret []byte
	secure bool // set the Secure cookie flag (production deployments)
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production;
// anything under 16 is rejected outright.
func NewTokenService(secret string, secureCookies bool) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), secure: secureCookies}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given user ID.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.issueAt(userID, time.Now())
}

// issueAt is the clock-injectable core of Issue, used directly by tests to
// exercise expiry boundaries without sleeping.
func (s *TokenService) issueAt(userID string, now time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionDuration)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a session token, returning the user ID it was
// issued for. Returns ErrTokenExpired for a token past its expiry and
// ErrTokenInvalid for anything tampered, unsigned, or malformed.
//
// jwt.WithValidMethods pins the algorithm to HS256 so an attacker cannot
// downgrade to "none" or confuse HMAC with an asymmetric scheme.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", ErrTokenInvalid
	}

	return c.Subject, nil
}

// AttachCookie sets the session cookie on the response.
//
// HttpOnly keeps the token out of reach of page scripts. SameSite is Strict
// on the password login/registration paths; the OAuth callback passes Lax
// because the browser arrives on a cross-site top-level redirect from the
// provider and a Strict cookie would be dropped on it.
func (s *TokenService) AttachCookie(w http.ResponseWriter, token string, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   s.secure,
	})
}

// ClearCookie overwrites the session cookie with an empty value and an
// immediate expiry. This is the whole of logout: the server holds no session
// state, so discarding the cookie is what ends the session (the token itself
// stays valid until its 24h expiry, but the browser no longer sends it).
func (s *TokenService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.secure,
	})
}
