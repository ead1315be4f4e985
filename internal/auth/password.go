// Package auth provides the credential, session-token, and federation
// primitives for the portal: bcrypt password hashing, JWT cookie sessions,
// and the Google OAuth code exchange.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for new hashes.
// Cost 12 takes roughly 250ms on a modern server — slow enough to make
// offline brute force expensive, fast enough for interactive login.
const defaultCost = 12

// noPasswordMarker is stored as the credential of accounts provisioned via
// OAuth, which have no password at all. Its shape is disjoint from bcrypt
// output (bcrypt hashes always start with "$2"), so it can never compare
// true against any password a user submits. Do not replace this with a
// bcrypt hash of a fixed string — that would be a guessable credential.
const noPasswordMarker = "!oauth:no-password!"

// PasswordService hashes and verifies passwords with bcrypt.
//
// It's a struct (not free functions) so the cost can be injected: tests use
// the bcrypt minimum to avoid paying ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced cost.
// Use bcrypt.MinCost in tests; never in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// NoPasswordMarker returns the credential stored for federated accounts.
func NoPasswordMarker() string {
	return noPasswordMarker
}

// Hash hashes the given plaintext password.
//
// The output is self-contained (salt and cost embedded) and is stored
// directly in the users table. Plaintexts over 72 bytes are rejected
// explicitly because bcrypt would silently truncate them.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
//
// A mismatch is (false, nil) — it is an expected outcome, not an error.
// The no-password marker verifies false against everything. A non-nil error
// means the stored hash is malformed, which is a server-side data problem,
// never something the submitted password can cause.
func (p *PasswordService) Verify(plaintext, hash string) (bool, error) {
	if hash == noPasswordMarker {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
