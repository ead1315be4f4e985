// Package model defines the data structures used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles. It is fixed at account creation:
// self-service registration picks one of the two values below, and federated
// provisioning always assigns RoleStudent. Nothing in the update paths may
// change it afterwards.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

// ParseRole converts a client-supplied string into a Role. Matching is
// case-insensitive ("Student" and "student" are the same role); unknown
// values are rejected so a typo can never create a third role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(s)); r {
	case RoleStudent, RoleRecruiter:
		return r, nil
	default:
		return "", fmt.Errorf("model: unknown role %q", s)
	}
}

// Profile holds the mutable profile fields attached to a user.
//
// Skills is an ordered slice, not a set — the user controls the order and
// duplicates are preserved as given.
type Profile struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	ResumeURL          string   `json:"resume"`
	ResumeOriginalName string   `json:"resumeOriginalName"`
	ProfilePhotoURL    string   `json:"profilePhoto"`
}

// User represents a registered account.
//
// PasswordHash is either a bcrypt hash or, for accounts provisioned through
// OAuth, the no-password marker — never plaintext. The field carries `json:"-"`
// as a second line of defence, but outward responses must go through
// Sanitize() rather than serializing User directly.
//
// PhoneNumber is stored as a normalized digit string (7–15 digits). A string,
// not an integer: leading zeros are significant and no arithmetic ever happens
// on it.
type User struct {
	ID           string    `json:"id"          db:"id"`
	Fullname     string    `json:"fullname"    db:"fullname"`
	Email        string    `json:"email"       db:"email"` // unique across the store
	PasswordHash string    `json:"-"           db:"password_hash"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number"`
	Role         Role      `json:"role"        db:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"   db:"updated_at"`
}

// SanitizedUser is the outward projection of a User. It has no hash field at
// all, so no marshaling path can leak the credential.
type SanitizedUser struct {
	ID          string    `json:"id"`
	Fullname    string    `json:"fullname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        Role      `json:"role"`
	Profile     Profile   `json:"profile"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Sanitize builds the outward view of the user.
func (u *User) Sanitize() *SanitizedUser {
	return &SanitizedUser{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Profile:     u.Profile,
		CreatedAt:   u.CreatedAt,
	}
}
